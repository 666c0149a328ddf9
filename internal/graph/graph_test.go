package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticRefs returns a RefsFunc backed by a fixed adjacency map.
func staticRefs(adj map[string][]string) RefsFunc {
	return func(name string) ([]string, error) {
		return adj[name], nil
	}
}

func TestBatches_Empty(t *testing.T) {
	g, err := Build(nil, staticRefs(nil))
	require.NoError(t, err)

	batches, err := g.Batches()
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestBatches_NoReferences(t *testing.T) {
	g, err := Build([]string{"Car", "Boat"}, staticRefs(nil))
	require.NoError(t, err)

	batches, err := g.Batches()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Car", "Boat"}}, batches)
}

func TestBatches_Chain(t *testing.T) {
	// Declared out of dependency order on purpose
	g, err := Build([]string{"Class", "Kingdom", "Phylum"}, staticRefs(map[string][]string{
		"Phylum": {"Kingdom"},
		"Class":  {"Phylum"},
	}))
	require.NoError(t, err)

	batches, err := g.Batches()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Kingdom"}, {"Phylum"}, {"Class"}}, batches)
}

func TestBatches_Diamond(t *testing.T) {
	g, err := Build([]string{"User", "Post", "Comment", "Like"}, staticRefs(map[string][]string{
		"Post":    {"User"},
		"Comment": {"Post", "User"},
		"Like":    {"User"},
	}))
	require.NoError(t, err)

	batches, err := g.Batches()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"User"}, {"Post", "Like"}, {"Comment"}}, batches)
}

func TestBatches_DuplicateReferencesCountTwice(t *testing.T) {
	g, err := Build([]string{"Author", "Review"}, staticRefs(map[string][]string{
		"Review": {"Author", "Author"},
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Author", "Author"}, g.Refs("Review"))

	batches, err := g.Batches()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Author"}, {"Review"}}, batches)
}

func TestBuild_DropsUnknownReferences(t *testing.T) {
	g, err := Build([]string{"Post"}, staticRefs(map[string][]string{
		"Post": {"Author"},
	}))
	require.NoError(t, err)

	assert.Empty(t, g.Refs("Post"))

	batches, err := g.Batches()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Post"}}, batches)
}

func TestBuild_PropagatesRefsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Build([]string{"Post"}, func(string) ([]string, error) { return nil, boom })

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "refs of Post")
}

func TestBatches_StallsOnMutualReferences(t *testing.T) {
	g, err := Build([]string{"A", "B"}, staticRefs(map[string][]string{
		"A": {"B"},
		"B": {"A"},
	}))
	require.NoError(t, err)

	_, err = g.Batches()
	assert.ErrorIs(t, err, ErrStalled)
}

func TestBatches_EveryNodeExactlyOnce(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	g, err := Build(names, staticRefs(map[string][]string{
		"B": {"A"},
		"C": {"B"},
		"D": {"A"},
		"E": {"C", "D"},
	}))
	require.NoError(t, err)

	batches, err := g.Batches()
	require.NoError(t, err)

	rank := make(map[string]int)
	for i, batch := range batches {
		for _, name := range batch {
			_, dup := rank[name]
			require.False(t, dup, "%s appears twice", name)
			rank[name] = i
		}
	}
	assert.Len(t, rank, len(names))

	for _, name := range names {
		for _, ref := range g.Refs(name) {
			assert.Less(t, rank[ref], rank[name], "%s must be batched before %s", ref, name)
		}
	}
	assert.Equal(t, []string{"E"}, batches[len(batches)-1])
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		adj   map[string][]string
		want  [][]string
	}{
		{
			name:  "acyclic",
			names: []string{"Kingdom", "Phylum", "Class"},
			adj:   map[string][]string{"Phylum": {"Kingdom"}, "Class": {"Phylum", "Kingdom"}},
			want:  nil,
		},
		{
			name:  "self reference",
			names: []string{"Author"},
			adj:   map[string][]string{"Author": {"Author"}},
			want:  [][]string{{"Author", "Author"}},
		},
		{
			name:  "two nodes",
			names: []string{"A", "B"},
			adj:   map[string][]string{"A": {"B"}, "B": {"A"}},
			want:  [][]string{{"A", "B", "A"}},
		},
		{
			name:  "starts at earliest node",
			names: []string{"Root", "C", "A", "B"},
			adj:   map[string][]string{"Root": {"A"}, "A": {"B"}, "B": {"C"}, "C": {"A"}},
			want:  [][]string{{"C", "A", "B", "C"}},
		},
		{
			name:  "separate cycles",
			names: []string{"X", "A", "B", "Y"},
			adj:   map[string][]string{"A": {"B"}, "B": {"A"}, "X": {"X"}, "Y": {"A"}},
			want:  [][]string{{"X", "X"}, {"A", "B", "A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.names, staticRefs(tt.adj))
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Cycles())
		})
	}
}
