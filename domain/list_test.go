package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AddMembers_Dedupes_By_Handle(t *testing.T) {
	req := require.New(t)

	list := NewPartyList("Birthday Bash")
	amy := Contact{Name: "Amy", Handle: "+1555"}
	bo := Contact{Name: "Bo", Handle: "+1556"}

	added := list.AddMembers(amy, bo)
	req.Len(added, 2)

	// Adding an already-present handle is silently dropped.
	added = list.AddMembers(amy)
	req.Empty(added)
	req.Equal([]Contact{amy, bo}, list.Members)
}

func Test_AddMembers_Collapses_Duplicate_Candidates(t *testing.T) {
	req := require.New(t)

	list := NewPartyList("Picnic")
	amy := Contact{Name: "Amy", Handle: "+1555"}

	added := list.AddMembers(amy, amy, amy)
	req.Len(added, 1)
	req.Equal(1, list.Len())
}

func Test_AddMembers_Keeps_Insertion_Order(t *testing.T) {
	req := require.New(t)

	list := NewPartyList("Picnic")
	list.AddMembers(
		Contact{Name: "Clara", Handle: "+3"},
		Contact{Name: "Amy", Handle: "+1"},
		Contact{Name: "Bo", Handle: "+2"},
	)

	req.Equal("+3", list.Members[0].Handle)
	req.Equal("+1", list.Members[1].Handle)
	req.Equal("+2", list.Members[2].Handle)
}

func Test_RemoveAt(t *testing.T) {
	req := require.New(t)

	list := NewPartyList("Picnic")
	list.AddMembers(
		Contact{Name: "Amy", Handle: "+1"},
		Contact{Name: "Bo", Handle: "+2"},
	)

	removed, err := list.RemoveAt(1)
	req.NoError(err)
	req.Equal("Amy", removed.Name)
	req.Equal(1, list.Len())
	req.Equal("Bo", list.Members[0].Name)

	_, err = list.RemoveAt(5)
	req.Error(err)
	_, err = list.RemoveAt(0)
	req.Error(err)
}
