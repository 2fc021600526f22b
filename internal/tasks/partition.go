package tasks

import "github.com/avrelia/mdexport/internal/models"

// Partition splits enriched titles three ways by external identifier. A title
// with an AniList id goes to AniList even when it also has a MAL id; a title
// with only a MAL id goes to MALOnly; the rest are Unlinked. Input order is
// preserved within each sequence and the split is pure.
func Partition(items []models.Manga) models.Partition {
	var p models.Partition
	for _, m := range items {
		switch {
		case m.AniListID != "":
			p.AniList = append(p.AniList, m)
		case m.MALID != "":
			p.MALOnly = append(p.MALOnly, m)
		default:
			p.Unlinked = append(p.Unlinked, m)
		}
	}
	return p
}
