package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/project-votes/internal/models"
)

const sample = `
projects:
  - name: Clean Water
    country: Kenya
    icon_code: water
    colour: "#1f77b4"
  - name: Reforest
    country: Nepal
    icon_code: tree
    colour: "#2ca02c"
vouchers:
  - code: 48213
    expires: 2025-01-31T23:59:00Z
  - code: 77001
    expires: 2025-02-28T12:00:00+02:00
`

type recordingWriter struct {
	projects []models.Project
	vouchers []models.Voucher
	err      error
}

func (r *recordingWriter) UpsertProjects(_ context.Context, p []models.Project) error {
	r.projects = append(r.projects, p...)
	return r.err
}

func (r *recordingWriter) UpsertVouchers(_ context.Context, v []models.Voucher) error {
	r.vouchers = append(r.vouchers, v...)
	return nil
}

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, f.Projects, 2)
	assert.Equal(t, Project{Name: "Clean Water", Country: "Kenya", IconCode: "water", Colour: "#1f77b4"}, f.Projects[0])
	require.Len(t, f.Vouchers, 2)
	assert.Equal(t, int64(77001), f.Vouchers[1].Code)
	assert.True(t, f.Vouchers[1].Expires.Equal(time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC)))
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Projects)
	assert.Empty(t, f.Vouchers)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":     "projects:\n  - name: A\n    colour_hex: red\n",
		"missing name":      "projects:\n  - country: Peru\n",
		"duplicate name":    "projects:\n  - name: A\n  - name: A\n",
		"non positive code": "vouchers:\n  - code: 0\n    expires: 2025-01-01T00:00:00Z\n",
		"missing expiry":    "vouchers:\n  - code: 5\n",
		"duplicate code":    "vouchers:\n  - code: 5\n    expires: 2025-01-01T00:00:00Z\n  - code: 5\n    expires: 2025-01-02T00:00:00Z\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Projects, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	w := &recordingWriter{}
	res, err := Apply(context.Background(), w, f)
	require.NoError(t, err)

	assert.Equal(t, Result{Projects: 2, Vouchers: 2}, res)
	assert.Equal(t, "Reforest", w.projects[1].Name)
	assert.Equal(t, "#2ca02c", w.projects[1].Colour)
	assert.Equal(t, int64(48213), w.vouchers[0].Code)
	assert.Equal(t, time.UTC, w.vouchers[1].ExpiryDate.Location())
	assert.False(t, w.vouchers[0].Used)
	assert.Nil(t, w.vouchers[0].ProjectID)
}

func TestApplyStopsOnProjectError(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	w := &recordingWriter{err: errors.New("unique violation")}
	_, err = Apply(context.Background(), w, f)
	assert.Error(t, err)
	assert.Empty(t, w.vouchers)
}
