// Package validate checks the referential and cardinality consistency of a
// schema's associations before any code is generated.
package validate

import (
	"fmt"
	"log/slog"

	"github.com/scaffolddb/scaffold/internal/model"
)

// Diagnostic describes one association that violates the cardinality rule.
type Diagnostic struct {
	Table       string `json:"table"`
	Association string `json:"association"`
	Message     string `json:"message"`
}

// Report is the outcome of validating a whole database. Diagnostics holds
// every violation found; Valid is false when there is at least one.
type Report struct {
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ResolutionError reports an association referencing a related type or column
// that does not resolve to exactly one schema entity. This is a defect in the
// schema model itself, not a soft diagnostic, so it aborts validation.
type ResolutionError struct {
	Table       string
	Association string
	Kind        string // "type" or "column"
	Ref         string
	Matches     int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("association %q on type %q: %s reference %q resolves to %d matches, want exactly 1",
		e.Association, e.Table, e.Kind, e.Ref, e.Matches)
}

// Database validates every association on every table and returns a report
// with all accumulated diagnostics. It does not short-circuit on the first
// violation, so one run surfaces everything wrong with the schema.
//
// An association whose related type or other-key column does not resolve to
// exactly one match is a fatal precondition failure and is returned as a
// *ResolutionError instead of a diagnostic.
func Database(db *model.Database) (*Report, error) {
	report := &Report{Valid: true}

	for ti := range db.Tables {
		owner := &db.Tables[ti].Type
		for ai := range owner.Associations {
			assoc := &owner.Associations[ai]

			otherTypes := db.TypeByName(assoc.Type)
			if len(otherTypes) != 1 {
				return nil, &ResolutionError{
					Table:       owner.Name,
					Association: assoc.Name,
					Kind:        "type",
					Ref:         assoc.Type,
					Matches:     len(otherTypes),
				}
			}
			otherType := otherTypes[0]

			otherColumns := otherType.ColumnByMember(assoc.OtherKey)
			if len(otherColumns) != 1 {
				return nil, &ResolutionError{
					Table:       owner.Name,
					Association: assoc.Name,
					Kind:        "column",
					Ref:         assoc.OtherKey,
					Matches:     len(otherColumns),
				}
			}

			// Best-effort reciprocal lookup. Absence does not affect the
			// verdict; it is only surfaced at debug level.
			if reciprocal(otherType, owner.Name, assoc.OtherKey) == nil {
				slog.Debug("association has no reciprocal on related type",
					"table", owner.Name,
					"association", assoc.Name,
					"related", otherType.Name)
			}

			// The many-valued side of a relationship cannot own the foreign
			// key column; the key must live on the single-valued side.
			if assoc.CardinalitySpecified && assoc.Cardinality == model.Many && assoc.IsForeignKey {
				report.Diagnostics = append(report.Diagnostics, Diagnostic{
					Table:       owner.Name,
					Association: assoc.Name,
					Message: fmt.Sprintf("association %q on type %q declares cardinality Many but owns the foreign key",
						assoc.Name, owner.Name),
				})
				report.Valid = false
			}
		}
	}

	return report, nil
}

// reciprocal finds an association on the related type that points back at the
// owning type through the same key pair, or nil when there is none.
func reciprocal(other *model.TableType, ownerName, otherKey string) *model.Association {
	for i := range other.Associations {
		a := &other.Associations[i]
		if a.Type == ownerName && a.ThisKey == otherKey {
			return a
		}
	}
	return nil
}
