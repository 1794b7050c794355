package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnualIncome(t *testing.T) {
	nurse := Profession{
		Name:          "Nurse - RN",
		AverageSalary: 75000,
	}
	assert.Equal(t, 75000.0, nurse.AnnualIncome())

	// Students are taxed on twelve months of their during-school stipend,
	// the same monthly reading the projection deposits.
	student := Profession{
		Name:                "Physician",
		RequiresSchool:      true,
		AverageSalary:       220000,
		SavingsDuringSchool: 1500,
	}
	assert.Equal(t, 18000.0, student.AnnualIncome())
}
