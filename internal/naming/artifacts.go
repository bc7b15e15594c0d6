package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// ArtifactKind identifies one generated output file.
type ArtifactKind string

const (
	KindContext             ArtifactKind = "context"
	KindEntities            ArtifactKind = "entities"
	KindRepositoryInterface ArtifactKind = "repository-interface"
	KindRepository          ArtifactKind = "repository"
	KindMockRepository      ArtifactKind = "mock-repository"
)

// Artifact pairs an artifact kind with its derived output file name.
type Artifact struct {
	Kind     ArtifactKind
	FileName string
}

// ContextClass derives the default base class identifier from a database
// name: "northwind_store" becomes "NorthwindStoreContext".
func ContextClass(dbName string) string {
	return inflect.Camelize(inflect.Underscore(dbName)) + "Context"
}

// DeriveNames derives the output file name for every enabled artifact from a
// single base class identifier. The base class is expected to contain the
// literal token "Context" (e.g. "NorthwindContext"); each name substitutes an
// artifact-specific suffix for that token.
//
// When the token is absent the substitution is a no-op and every artifact
// gets the base class verbatim, so the names collide. That degradation is
// deliberate and must not be turned into an error; see the README note on
// context naming.
func DeriveNames(baseClass string, includeRepository bool) []Artifact {
	sub := func(suffix string) string {
		return strings.ReplaceAll(baseClass, "Context", suffix)
	}

	artifacts := []Artifact{
		{Kind: KindContext, FileName: sub("EfContext.cs")},
		{Kind: KindEntities, FileName: sub("Entities.cs")},
	}
	if includeRepository {
		artifacts = append(artifacts,
			Artifact{Kind: KindRepositoryInterface, FileName: "I" + sub("Repository.cs")},
			Artifact{Kind: KindRepository, FileName: sub("Repository.cs")},
			Artifact{Kind: KindMockRepository, FileName: "Mock" + sub("Repository.cs")},
		)
	}
	return artifacts
}
