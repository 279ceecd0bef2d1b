package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
	"github.com/tacogips/kickstart-salt/internal/metadata"
	"github.com/tacogips/kickstart-salt/internal/platform"
)

// Metadata keys read by MetadataSource.
const (
	MetadataDNSKey       = "attributes/dns"
	MetadataArgsKey      = "attributes/kickstart_salt_args"
	MetadataProjectIDKey = "project-id"
)

// MetadataNameserver is the GCE metadata server's DNS resolver.
const MetadataNameserver = "169.254.169.254"

// MetadataSource resolves Parameters from GCE instance and project
// metadata. Instance values override project values key by key.
type MetadataSource struct {
	Metadata metadata.Getter
	// Show, when set, receives the project, instance and effective
	// kickstart_salt_args documents as they are resolved.
	Show func(title string, doc *jsondoc.Object)
}

// NewMetadataSource creates a MetadataSource reading from g.
func NewMetadataSource(g metadata.Getter) *MetadataSource {
	return &MetadataSource{Metadata: g}
}

// Resolve implements ParameterSource.
func (s *MetadataSource) Resolve(ctx context.Context, p platform.Platform) (*Parameters, error) {
	debug.DebugSection("[bootstrap] Resolving parameters from metadata")

	dns, dnsWarnings, err := s.DNSEntries(ctx, p)
	if err != nil {
		return nil, err
	}

	cfg, err := s.EffectiveConfig(ctx)
	if err != nil {
		return nil, err
	}

	params, err := resolveParameters(cfg, p)
	if err != nil {
		return nil, err
	}
	params.DNSEntries = dns
	params.Warnings = append(params.Warnings, dnsWarnings...)

	debug.DebugValue("[bootstrap] SavePath", params.SavePath)
	debug.DebugValue("[bootstrap] DownloadURL", params.DownloadURL)
	debug.DebugValue("[bootstrap] HashType", params.HashType)
	debug.DebugValue("[bootstrap] DNSEntries", params.DNSEntries)
	return params, nil
}

// EffectiveConfig returns the merged kickstart_salt_args document. It is
// an error for neither scope to set it.
func (s *MetadataSource) EffectiveConfig(ctx context.Context) (*jsondoc.Object, error) {
	project, instance, cfg, err := s.ConfigDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, NewError(ConfigAbsent,
			"kickstart_salt_args is set in neither instance nor project metadata", nil)
	}

	if s.Show != nil {
		s.Show("Project kickstart_salt_args", project)
		s.Show("Instance kickstart_salt_args", instance)
		s.Show("Effective kickstart_salt_args", cfg)
	}
	return cfg, nil
}

// ConfigDocuments returns the project, instance and merged
// kickstart_salt_args documents. Unset documents are nil.
func (s *MetadataSource) ConfigDocuments(ctx context.Context) (project, instance, merged *jsondoc.Object, err error) {
	project, instance, err = s.scopes(ctx, MetadataArgsKey, "kickstart_salt_args")
	if err != nil {
		return nil, nil, nil, err
	}
	merged = jsondoc.Merge(project, instance)
	debug.DebugJSON("[bootstrap] kickstart_salt_args (effective)", merged)
	return project, instance, merged, nil
}

// DNSEntries returns the resolver configuration for p. On Linux these are
// complete resolv.conf lines: the project search domains, one nameserver
// per configured entry and the metadata server last. On Windows they are
// the configured addresses.
func (s *MetadataSource) DNSEntries(ctx context.Context, p platform.Platform) ([]string, []string, error) {
	var warnings []string

	dns, err := s.merged(ctx, MetadataDNSKey, "dns")
	if err != nil {
		return nil, nil, err
	}
	if dns == nil {
		warnings = append(warnings, "dns is set in neither instance nor project metadata")
	}

	entries, _, err := dns.GetStrings("entries")
	if err != nil {
		return nil, nil, NewError(ConfigMalformed, "invalid dns entries", err)
	}

	switch p {
	case platform.Windows:
		return entries, warnings, nil
	case platform.Linux:
		var lines []string
		projectID, ok, err := metadata.ProjectValue(ctx, s.Metadata, MetadataProjectIDKey)
		if err != nil {
			return nil, nil, classify(err, TransportUnreachable, "failed to read project-id")
		}
		if ok && projectID != "" {
			lines = append(lines, fmt.Sprintf("search c.%s.internal google.internal", projectID))
		} else {
			warnings = append(warnings, "project-id is not set; omitting the search line")
		}
		for _, e := range entries {
			lines = append(lines, "nameserver "+e)
		}
		lines = append(lines, "nameserver "+MetadataNameserver)
		return lines, warnings, nil
	default:
		return nil, nil, NewError(UnsupportedPlatform, p.String()+" has no DNS configuration", nil)
	}
}

// merged deep-merges the instance document of key over the project one.
func (s *MetadataSource) merged(ctx context.Context, key, name string) (*jsondoc.Object, error) {
	project, instance, err := s.scopes(ctx, key, name)
	if err != nil {
		return nil, err
	}
	return jsondoc.Merge(project, instance), nil
}

// scopes reads key from both scopes and parses each as a JSON object. An
// empty or null value counts as unset and yields nil.
func (s *MetadataSource) scopes(ctx context.Context, key, name string) (project, instance *jsondoc.Object, err error) {
	project, err = s.scopeObject(ctx, metadata.Project, key, fmt.Sprintf("'%s' key in project metadata", name))
	if err != nil {
		return nil, nil, err
	}
	instance, err = s.scopeObject(ctx, metadata.Instance, key, fmt.Sprintf("'%s' key in instance metadata", name))
	if err != nil {
		return nil, nil, err
	}

	debug.DebugJSON("[bootstrap] "+name+" (project)", project)
	debug.DebugJSON("[bootstrap] "+name+" (instance)", instance)
	return project, instance, nil
}

func (s *MetadataSource) scopeObject(ctx context.Context, scope metadata.Scope, key, description string) (*jsondoc.Object, error) {
	raw, ok, err := s.Metadata.Get(ctx, scope, key)
	if err != nil {
		return nil, classify(err, TransportUnreachable, "failed to read "+key)
	}
	// A JSON null is as good as an unset key.
	if !ok || raw == "" || strings.TrimSpace(raw) == "null" {
		return nil, nil
	}

	obj, err := jsondoc.ParseObject([]byte(raw), description)
	if err != nil {
		return nil, classify(err, ConfigMalformed, "failed to parse "+description)
	}
	return obj, nil
}
