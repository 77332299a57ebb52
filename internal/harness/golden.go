package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/querylab/qbridge/internal/q"
	"github.com/querylab/qbridge/internal/queryfile"
	"github.com/querylab/qbridge/internal/translate"
)

// Run builds the scenario's expression tree, binds its table symbol,
// and returns the rendered q translation.
func Run(scenario *Scenario) (string, error) {
	doc := &queryfile.Document{Table: scenario.Table, Pipeline: scenario.Pipeline}
	root, leaf, err := queryfile.Build(doc)
	if err != nil {
		return "", err
	}

	sym := q.NewTableSymbol(
		scenario.Table.Name,
		leaf.DShape.FieldNames(),
		scenario.Table.Partitioned,
		scenario.Table.Splayed,
	)
	frag, err := translate.New().Bind(leaf, sym).Translate(root)
	if err != nil {
		return "", err
	}
	return frag.String(), nil
}

// RunWithGolden runs a scenario and compares the rendered q text
// against testdata/golden/{name}.golden, or asserts the expected
// translation error code. Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	out, err := Run(scenario)
	if scenario.ExpectError != "" {
		require.Error(t, err, "scenario %s expected error %s", scenario.Name, scenario.ExpectError)
		var terr *translate.Error
		require.ErrorAs(t, err, &terr)
		require.Equal(t, translate.Code(scenario.ExpectError), terr.Code)
		return
	}
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(out+"\n"))
}
