// Package seed loads projects and vouchers from a YAML file into storage.
//
// A seed file looks like:
//
//	projects:
//	  - name: Clean Water
//	    country: Kenya
//	    icon_code: water
//	    colour: "#1f77b4"
//	vouchers:
//	  - code: 48213
//	    expires: 2025-01-31T23:59:00Z
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emilythestrangee/project-votes/internal/models"
)

// Writer is the part of storage.Store used for seeding.
type Writer interface {
	UpsertProjects(ctx context.Context, projects []models.Project) error
	UpsertVouchers(ctx context.Context, vouchers []models.Voucher) error
}

type File struct {
	Projects []Project `yaml:"projects"`
	Vouchers []Voucher `yaml:"vouchers"`
}

type Project struct {
	Name     string `yaml:"name"`
	Country  string `yaml:"country"`
	IconCode string `yaml:"icon_code"`
	Colour   string `yaml:"colour"`
}

type Voucher struct {
	Code    int64     `yaml:"code"`
	Expires time.Time `yaml:"expires"`
}

// Result counts what was written.
type Result struct {
	Projects int
	Vouchers int
}

func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a seed document.
func Parse(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

func (f *File) Validate() error {
	names := make(map[string]bool, len(f.Projects))
	for i, p := range f.Projects {
		if p.Name == "" {
			return fmt.Errorf("projects[%d]: name is required", i)
		}
		if names[p.Name] {
			return fmt.Errorf("projects[%d]: duplicate name %q", i, p.Name)
		}
		names[p.Name] = true
	}

	codes := make(map[int64]bool, len(f.Vouchers))
	for i, v := range f.Vouchers {
		if v.Code <= 0 {
			return fmt.Errorf("vouchers[%d]: code must be positive", i)
		}
		if v.Expires.IsZero() {
			return fmt.Errorf("vouchers[%d]: expires is required", i)
		}
		if codes[v.Code] {
			return fmt.Errorf("vouchers[%d]: duplicate code %d", i, v.Code)
		}
		codes[v.Code] = true
	}
	return nil
}

// Apply upserts the file's projects and vouchers. Existing redemptions and
// tallies are left untouched.
func Apply(ctx context.Context, w Writer, f *File) (Result, error) {
	projects := make([]models.Project, 0, len(f.Projects))
	for _, p := range f.Projects {
		projects = append(projects, models.Project{
			Name:     p.Name,
			Country:  p.Country,
			IconCode: p.IconCode,
			Colour:   p.Colour,
		})
	}
	if err := w.UpsertProjects(ctx, projects); err != nil {
		return Result{}, err
	}

	vouchers := make([]models.Voucher, 0, len(f.Vouchers))
	for _, v := range f.Vouchers {
		vouchers = append(vouchers, models.Voucher{
			Code:       v.Code,
			ExpiryDate: v.Expires.UTC(),
		})
	}
	if err := w.UpsertVouchers(ctx, vouchers); err != nil {
		return Result{Projects: len(projects)}, err
	}

	return Result{Projects: len(projects), Vouchers: len(vouchers)}, nil
}
