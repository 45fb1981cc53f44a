package importer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/adpulse/internal/importer/meta"
	"github.com/MrJamesThe3rd/adpulse/internal/importer/xlsx"
	"github.com/MrJamesThe3rd/adpulse/internal/metrics"
)

type csvImporter struct {
	parser *meta.Parser
}

func (i csvImporter) Import(r io.Reader) (*meta.Result, error) {
	return i.parser.Parse(r)
}

type xlsxImporter struct {
	parser *meta.Parser
}

func (i xlsxImporter) Import(r io.Reader) (*meta.Result, error) {
	rows, err := xlsx.ReadRows(r)
	if err != nil {
		return nil, err
	}

	return i.parser.ParseRows(rows), nil
}

type Service struct {
	profiles       map[string]meta.Profile
	defaultProfile string
	opts           []meta.Option
	metrics        *metrics.Import
}

type ServiceOption func(*Service)

// WithDefaultProfile selects the profile used when a request names none.
func WithDefaultProfile(name string) ServiceOption {
	return func(s *Service) {
		s.defaultProfile = name
	}
}

// WithHeaderMatch overrides the header comparison of every profile.
func WithHeaderMatch(match meta.HeaderMatch) ServiceOption {
	return func(s *Service) {
		for name, p := range s.profiles {
			p.Match = match
			s.profiles[name] = p
		}
	}
}

func WithMetrics(m *metrics.Import) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithParserOptions(opts ...meta.Option) ServiceOption {
	return func(s *Service) {
		s.opts = append(s.opts, opts...)
	}
}

func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		profiles:       make(map[string]meta.Profile),
		defaultProfile: meta.ProfileAdsManager,
	}

	for _, p := range meta.Profiles() {
		s.profiles[p.Name] = p
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// DefaultProfile returns the profile used when a request names none. It fails
// when the configured default is not a known profile.
func (s *Service) DefaultProfile() (meta.Profile, error) {
	p, ok := s.profiles[s.defaultProfile]
	if !ok {
		return meta.Profile{}, fmt.Errorf("unknown profile: %s", s.defaultProfile)
	}

	return p, nil
}

// ProfileNames lists the known profiles, default first.
func (s *Service) ProfileNames() []string {
	names := []string{s.defaultProfile}

	for _, p := range meta.Profiles() {
		if p.Name != s.defaultProfile {
			names = append(names, p.Name)
		}
	}

	return names
}

// Import parses an export. An empty profile selects the default one.
func (s *Service) Import(format Format, profile string, r io.Reader) (*meta.Result, error) {
	if profile == "" {
		profile = s.defaultProfile
	}

	p, ok := s.profiles[profile]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", profile)
	}

	parser := meta.NewParser(p, s.opts...)

	var importer Importer

	switch Format(strings.ToLower(string(format))) {
	case FormatCSV, "":
		format = FormatCSV
		importer = csvImporter{parser: parser}
	case FormatXLSX:
		format = FormatXLSX
		importer = xlsxImporter{parser: parser}
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	res, err := importer.Import(r)
	if err != nil {
		return nil, err
	}

	s.record(p.Name, format, res)

	return res, nil
}

func (s *Service) record(profile string, format Format, res *meta.Result) {
	d := res.Diagnostics

	slog.Info("parsed export",
		"profile", profile,
		"format", format,
		"rows", d.DataRows,
		"records", len(res.Records),
		"dropped", d.Dropped(),
		"unmapped_headers", len(d.UnmappedHeaders),
		"coerced_cells", d.CoercedCells,
	)

	if len(d.UnmappedHeaders) > 0 {
		slog.Debug("unmapped headers", "profile", profile, "headers", d.UnmappedHeaders)
	}

	if s.metrics == nil {
		return
	}

	s.metrics.Records.WithLabelValues(profile, string(format)).Add(float64(len(res.Records)))
	s.metrics.DroppedRows.WithLabelValues(profile, "no_date").Add(float64(d.DroppedNoDate))
	s.metrics.DroppedRows.WithLabelValues(profile, "no_data").Add(float64(d.DroppedNoData))
	s.metrics.DroppedRows.WithLabelValues(profile, "inactive").Add(float64(d.DroppedInactive))
	s.metrics.UnmappedHeaders.WithLabelValues(profile).Add(float64(len(d.UnmappedHeaders)))
	s.metrics.CoercedCells.WithLabelValues(profile).Add(float64(d.CoercedCells))
}
