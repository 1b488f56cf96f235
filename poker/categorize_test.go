package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		card1    string
		card2    string
		expected HoleCardCategory
	}{
		{"Pocket Aces", "As", "Ah", CategoryPremium},
		{"Pocket Jacks", "Jh", "Jd", CategoryPremium},
		{"Ace King offsuit", "Ac", "Kh", CategoryPremium},

		{"Pocket Tens", "Tc", "Th", CategoryStrong},
		{"Ace Queen suited", "As", "Qs", CategoryStrong},
		{"Ace Jack offsuit", "Ad", "Jc", CategoryStrong},

		{"Pocket Sevens", "7h", "7c", CategoryMedium},
		{"King Queen suited", "Ks", "Qs", CategoryMedium},
		{"Queen Jack suited", "Qd", "Jd", CategoryMedium},

		{"Pocket Twos", "2c", "2h", CategoryWeak},
		{"Suited connectors 76s", "7h", "6h", CategoryWeak},
		{"Suited one-gapper 53s", "5d", "3d", CategoryWeak},

		{"Seven Two offsuit", "7c", "2h", CategoryTrash},
		{"Jack Four offsuit", "Jh", "4c", CategoryTrash},
		{"King Queen offsuit", "Kc", "Qh", CategoryTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card1, err := ParseCard(tt.card1)
			require.NoError(t, err)
			card2, err := ParseCard(tt.card2)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, CategorizeHoleCards(card1, card2))
			assert.Equal(t, tt.expected, CategorizeHoleCards(card2, card1), "order should not matter")
		})
	}
}

func TestCategorizeInvalidCards(t *testing.T) {
	t.Parallel()
	assert.Equal(t, CategoryUnknown, CategorizeHoleCards(Card{}, NewCard(Ace, Spades)))
}
