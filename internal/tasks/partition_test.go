package tasks

import (
	"testing"

	"github.com/avrelia/mdexport/internal/models"
)

func TestPartition(t *testing.T) {
	items := []models.Manga{
		{ID: "a", AniListID: "1", MALID: "10"},
		{ID: "b", MALID: "20"},
		{ID: "c"},
		{ID: "d", AniListID: "2"},
		{ID: "e", MALID: "30"},
	}

	p := Partition(items)

	if p.Total() != len(items) {
		t.Errorf("total = %d, want %d", p.Total(), len(items))
	}
	if len(p.AniList) != 2 || p.AniList[0].ID != "a" || p.AniList[1].ID != "d" {
		t.Errorf("anilist partition = %v", ids(p.AniList))
	}
	if len(p.MALOnly) != 2 || p.MALOnly[0].ID != "b" || p.MALOnly[1].ID != "e" {
		t.Errorf("mal-only partition = %v", ids(p.MALOnly))
	}
	if len(p.Unlinked) != 1 || p.Unlinked[0].ID != "c" {
		t.Errorf("unlinked partition = %v", ids(p.Unlinked))
	}
}

func TestPartitionAniListWinsOverMAL(t *testing.T) {
	p := Partition([]models.Manga{{ID: "a", AniListID: "1", MALID: "10"}})
	if len(p.AniList) != 1 || len(p.MALOnly) != 0 {
		t.Errorf("dual-linked title must go to AniList: %+v", p)
	}
}

func TestPartitionEmpty(t *testing.T) {
	p := Partition(nil)
	if p.Total() != 0 {
		t.Errorf("total = %d", p.Total())
	}
}

func ids(items []models.Manga) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.ID
	}
	return out
}
