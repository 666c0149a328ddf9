package fixturefile

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares a seed result against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/fixturefile -update
func AssertGolden(t *testing.T, name string, result *SeedResult) error {
	t.Helper()

	data, err := result.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
