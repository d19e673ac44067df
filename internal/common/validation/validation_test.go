package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername(""))
	assert.NoError(t, ValidateUsername("marnitic"))
	assert.NoError(t, ValidateUsername("@marnitic"))
	assert.Error(t, ValidateUsername("abc"))
	assert.Error(t, ValidateUsername("has space"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Алексей Петров"))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("я", MaxNameLength+1)))
}

func TestValidateVisibility(t *testing.T) {
	for _, v := range []string{VisibilityAll, VisibilityFriends, VisibilityNobody} {
		assert.NoError(t, ValidateVisibility("wall_visibility", v))
	}
	assert.Error(t, ValidateVisibility("can_post", "everyone"))
}

func TestValidatePost(t *testing.T) {
	cases := []struct {
		name    string
		kind    string
		content string
		wantErr bool
	}{
		{"text", PostTypeText, "hello wall", false},
		{"empty text", PostTypeText, "  ", true},
		{"image url", PostTypeImage, "https://cdn.example/p.png", false},
		{"image not url", PostTypeImage, "not-a-url", true},
		{"drawing", PostTypeDrawing, "data:image/png;base64,iVBORw0KGgo=", false},
		{"drawing url", PostTypeDrawing, "https://cdn.example/p.png", true},
		{"unknown type", "video", "https://cdn.example/v.mp4", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePost(tc.kind, tc.content)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePage(t *testing.T) {
	limit, offset := ValidatePage(0, -5)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, _ = ValidatePage(1000, 0)
	assert.Equal(t, 100, limit)
}
