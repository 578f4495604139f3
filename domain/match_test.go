package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var snapshot = []Contact{
	{Name: "Amy Adams", Handle: "+1555"},
	{Name: "Bo Diddley", Handle: "+1556"},
	{Name: "Sam Young", Handle: "+1557"},
	{Name: "Amy Winehouse", Handle: "+1558"},
	{Name: "Grand Sam", Handle: "+1559"},
}

func Test_Search_Prefix_Before_Interior(t *testing.T) {
	req := require.New(t)

	hits := Search("sam", snapshot)
	req.Len(hits, 2)
	// "Sam Young" is a prefix match, "Grand Sam" interior only.
	req.Equal("+1557", hits[0].Handle)
	req.Equal("+1559", hits[1].Handle)
}

func Test_Search_Ties_Keep_Snapshot_Order(t *testing.T) {
	req := require.New(t)

	hits := Search("AMY", snapshot)
	req.Len(hits, 2)
	req.Equal("Amy Adams", hits[0].Name)
	req.Equal("Amy Winehouse", hits[1].Name)
}

func Test_Search_Empty_Query_Returns_Nothing(t *testing.T) {
	req := require.New(t)

	req.Empty(Search("", snapshot))
	req.Empty(Search("   ", snapshot))
}

func Test_Search_No_Match(t *testing.T) {
	req := require.New(t)

	req.Empty(Search("zz", snapshot))
	req.Empty(Search("amy", nil))
}
