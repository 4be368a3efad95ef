package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidQID(t *testing.T) {
	for _, id := range []string{"Q1", "Q296", "Q3305213"} {
		assert.True(t, ValidQID(id), id)
	}
	for _, id := range []string{"", "Q", "q296", "Qabc", "Q29 6", "P170", "Q296 }"} {
		assert.False(t, ValidQID(id), id)
	}
}

func TestArtwork_RowMatchesColumns(t *testing.T) {
	a := Artwork{
		ID: "Q1", Titre: "t", Createur: "c", CreateurID: "Q2", Date: "d",
		ImageURL: "i", Lieu: "l", Genre: "g", Mouvement: "m", WikidataURL: "u",
	}
	row := a.Row()
	assert.Len(t, row, len(Columns))

	var rebuilt Artwork
	for i, c := range Columns {
		assert.True(t, rebuilt.Set(c, row[i]), c)
	}
	assert.Equal(t, a, rebuilt)
}

func TestArtwork_SetUnknownColumn(t *testing.T) {
	var a Artwork
	assert.False(t, a.Set("Unnamed: 0", "x"))
	assert.Equal(t, Artwork{}, a)
}

func TestArtwork_Normalize(t *testing.T) {
	a := Artwork{ID: "Q1", Titre: "La Joconde", ImageURL: ""}
	a.Normalize()

	assert.Equal(t, "Q1", a.ID)
	assert.Equal(t, "La Joconde", a.Titre)
	assert.Equal(t, Placeholder, a.ImageURL)
	assert.Equal(t, Placeholder, a.Genre)
	assert.Equal(t, Placeholder, a.CreateurID)
	assert.False(t, a.HasImage())
	assert.False(t, a.HasDate())
}

func TestArtwork_HasImage(t *testing.T) {
	assert.True(t, Artwork{ImageURL: "http://commons.wikimedia.org/x.jpg"}.HasImage())
	assert.False(t, Artwork{}.HasImage())
	assert.False(t, Artwork{ImageURL: Placeholder}.HasImage())
}
