package manifest

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/git-pkgs/modsync/internal/core"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		previous []string
		current  []string
		want     []string
	}{
		{"identical", []string{"A", "B"}, []string{"A", "B"}, nil},
		{"reordered", []string{"A", "B"}, []string{"B", "A"}, nil},
		{"both empty", nil, nil, nil},
		{"one swapped", []string{"A", "B"}, []string{"A", "C"}, []string{"-C", "+B"}},
		{"all new", nil, []string{"A", "B"}, []string{"-A", "-B"}},
		{"all gone", []string{"A", "B"}, nil, []string{"+A", "+B"}},
		{"order kept", []string{"Z", "Y", "X"}, []string{"C", "B", "A"}, []string{"-C", "-B", "-A", "+Z", "+Y", "+X"}},
		{"case sensitive", []string{"team-mod"}, []string{"Team-Mod"}, []string{"-Team-Mod", "+team-mod"}},
		{"duplicates by presence", []string{"A", "A"}, []string{"B", "B"}, []string{"-B", "-B", "+A", "+A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.previous, tt.current))
		})
	}
}

func TestDiffProperties(t *testing.T) {
	ids := rapid.SliceOf(rapid.SampledFrom([]string{"A-a", "A-b", "B-a", "B-b", "C-c", "D-d"}))

	rapid.Check(t, func(t *rapid.T) {
		previous := ids.Draw(t, "previous")
		current := ids.Draw(t, "current")

		if got := Diff(previous, previous); len(got) != 0 {
			t.Fatalf("Diff(A, A) = %v, want empty", got)
		}

		changes := Diff(previous, current)

		var removals, additions []string
		seenAddition := false
		for _, c := range changes {
			switch c[0] {
			case '-':
				if seenAddition {
					t.Fatalf("removal after addition in %v", changes)
				}
				removals = append(removals, c[1:])
			case '+':
				seenAddition = true
				additions = append(additions, c[1:])
			default:
				t.Fatalf("unsigned change %q", c)
			}
		}

		var wantRemovals, wantAdditions []string
		for _, c := range current {
			if !slices.Contains(previous, c) {
				wantRemovals = append(wantRemovals, c)
			}
		}
		for _, p := range previous {
			if !slices.Contains(current, p) {
				wantAdditions = append(wantAdditions, p)
			}
		}
		if !slices.Equal(removals, wantRemovals) || !slices.Equal(additions, wantAdditions) {
			t.Fatalf("Diff(%v, %v) = %v", previous, current, changes)
		}
	})
}

func TestStripVersions(t *testing.T) {
	ids, err := StripVersions([]string{"BepInEx-BepInExPack-5.4.2100", "x753-More_Suits-1.4.1", "Team-Mod"})
	require.NoError(t, err)
	assert.Equal(t, []string{"BepInEx-BepInExPack", "x753-More_Suits", "Team-Mod"}, ids)

	_, err = StripVersions([]string{"Team-Mod-1.0.0", "not valid"})
	assert.ErrorIs(t, err, core.ErrInvalidName)
}

func TestChanges(t *testing.T) {
	m, err := Parse([]byte(`{"version_number": "1.2.3", "dependencies": ["Team-A-1.0.0", "Team-B-1.0.0"]}`))
	require.NoError(t, err)

	changes, err := Changes(m, core.DependencySet{"Team-A-1.1.0", "Team-C-2.0.0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-Team-C", "+Team-B"}, changes)

	// a version bump alone is not a change
	changes, err = Changes(m, core.DependencySet{"Team-A-9.9.9", "Team-B-9.9.9"})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestChangesMalformedManifest(t *testing.T) {
	m, err := Parse([]byte(`{"dependencies": ["???"]}`))
	require.NoError(t, err)

	_, err = Changes(m, nil)
	var me *core.ManifestError
	require.True(t, errors.As(err, &me), "want *core.ManifestError, got %v", err)
	assert.True(t, strings.Contains(err.Error(), "???"))
}

func TestChangesMalformedResolvedName(t *testing.T) {
	m, err := Parse([]byte(`{"version_number": "1.0.0", "dependencies": ["Team-A-1.0.0"]}`))
	require.NoError(t, err)

	_, err = Changes(m, core.DependencySet{"Team-A-1.0.0", ""})
	var upe *core.UnknownPackageError
	require.True(t, errors.As(err, &upe), "want *core.UnknownPackageError, got %v", err)
	assert.Contains(t, upe.Reason, "malformed full name")
}
