package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Giulia", false},
		{"With Space", "Maria Rosa", false},
		{"With Apostrophe", "De'Andre", false},
		{"Accented", "Nicolò", false},
		{"Too Short", "G", true},
		{"Digits", "Giulia99", true},
		{"Symbols", "Giulia!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBirthDate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	assert.NoError(t, ValidateBirthDate("1990-06-15"))
	assert.NoError(t, ValidateBirthDate(now.AddDate(-MinSignupAge, 0, -1).Format("2006-01-02")))

	assert.Error(t, ValidateBirthDate("not-a-date"))
	assert.Error(t, ValidateBirthDate("1990-13-40"))
	assert.Error(t, ValidateBirthDate(now.AddDate(0, 0, 1).Format("2006-01-02")))
	assert.Error(t, ValidateBirthDate(now.AddDate(-MinSignupAge+1, 0, 0).Format("2006-01-02")))
}
