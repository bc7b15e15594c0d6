package csharp

// artifactTemplates holds one template per artifact kind. Bodies are emitted
// with tab indentation and internally scoped navigation members; the
// post-processor converts tabs to spaces and widens access on the entities
// artifact.
const artifactTemplates = `
{{- define "header" -}}
//------------------------------------------------------------------------------
// <auto-generated>
//     This code was generated by scaffold. Manual changes to this file will
//     be overwritten if the code is regenerated.
// </auto-generated>
//------------------------------------------------------------------------------
{{ end -}}

{{- define "context" -}}
{{ template "header" . }}
using System;
using System.Data.Entity;

namespace {{ .Namespace }}
{
	public partial class {{ .Class }} : DbContext
	{
		public {{ .Class }}()
			: base("name={{ .Class }}")
		{
		}
{{ range .Tables }}
		public DbSet<{{ .ClassName }}> {{ .SetName }} { get; set; }
{{- end }}
{{- range .Functions }}

		public int {{ .Method }}({{ csParams .Parameters }})
		{
			return Database.ExecuteSqlCommand("EXEC {{ .Name }}{{ csPlaceholders .Parameters }}"{{ csArgs .Parameters }});
		}
{{- end }}
	}
}
{{ end -}}

{{- define "entities" -}}
{{ template "header" . }}
using System;
using System.Collections.Generic;

namespace {{ .Namespace }}
{
{{- range .Tables }}
	public partial class {{ .ClassName }}
	{
{{- range .Columns }}
		public {{ csType . }} {{ .Member }} { get; set; }
{{- end }}
{{- range .Associations }}
{{- if .Many }}
		internal static ICollection<{{ .TypeName }}> {{ .Member }} { get; set; }
{{- else }}
		internal static {{ .TypeName }} {{ .Member }} { get; set; }
{{- end }}
{{- end }}
	}
{{ end -}}
}
{{ end -}}

{{- define "repository-interface" -}}
{{ template "header" . }}
using System;
using System.Linq;

namespace {{ .Namespace }}
{
	public interface {{ .RepoInterface }} : IDisposable
	{
{{- range .Tables }}
		IQueryable<{{ .ClassName }}> {{ .SetName }}();
		void Add({{ .ClassName }} entity);
		void Remove({{ .ClassName }} entity);
{{- end }}
		void SaveChanges();
	}
}
{{ end -}}

{{- define "repository" -}}
{{ template "header" . }}
using System;
using System.Linq;

namespace {{ .Namespace }}
{
	public partial class {{ .RepoClass }} : {{ .RepoInterface }}
	{
		private readonly {{ .Class }} context = new {{ .Class }}();
{{ range .Tables }}
		public IQueryable<{{ .ClassName }}> {{ .SetName }}()
		{
			return context.{{ .SetName }};
		}

		public void Add({{ .ClassName }} entity)
		{
			context.{{ .SetName }}.Add(entity);
		}

		public void Remove({{ .ClassName }} entity)
		{
			context.{{ .SetName }}.Remove(entity);
		}
{{ end }}
		public void SaveChanges()
		{
			context.SaveChanges();
		}

		public void Dispose()
		{
			context.Dispose();
		}
	}
}
{{ end -}}

{{- define "mock-repository" -}}
{{ template "header" . }}
using System;
using System.Collections.Generic;
using System.Linq;

namespace {{ .Namespace }}
{
	public partial class {{ .MockClass }} : {{ .RepoInterface }}
	{
{{- range .Tables }}
		private readonly List<{{ .ClassName }}> {{ lowerFirst .SetName }} = new List<{{ .ClassName }}>();
{{- end }}
{{ range .Tables }}
		public IQueryable<{{ .ClassName }}> {{ .SetName }}()
		{
			return {{ lowerFirst .SetName }}.AsQueryable();
		}

		public void Add({{ .ClassName }} entity)
		{
			{{ lowerFirst .SetName }}.Add(entity);
		}

		public void Remove({{ .ClassName }} entity)
		{
			{{ lowerFirst .SetName }}.Remove(entity);
		}
{{ end }}
		public void SaveChanges()
		{
		}

		public void Dispose()
		{
		}
	}
}
{{ end -}}
`
