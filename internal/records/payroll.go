package records

import (
	"fmt"
	"math"
	"strings"

	"github.com/fmuoria/HR-automation-system/internal/models"
)

// Bonus bounds, in percent
const (
	MinBonus = 0.0
	MaxBonus = 100.0
)

// TotalSalary applies a performance bonus percentage to a base salary
func TotalSalary(base, bonusPercent float64) float64 {
	return base + (base * bonusPercent / 100)
}

// NewPayrollEntry validates the payroll form and computes the total salary
func NewPayrollEntry(name string, base, bonusPercent float64) (models.PayrollEntry, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.PayrollEntry{}, "", invalid("employee_name", "employee name is required")
	}
	if math.IsNaN(base) || math.IsInf(base, 0) || base < 0 {
		return models.PayrollEntry{}, "", invalid("base_salary", "base salary must be a non-negative number")
	}
	if math.IsNaN(bonusPercent) || bonusPercent < MinBonus || bonusPercent > MaxBonus {
		return models.PayrollEntry{}, "", invalid("performance_bonus", "performance bonus must be between %.0f and %.0f percent", MinBonus, MaxBonus)
	}

	entry := models.PayrollEntry{
		EmployeeName: name,
		BaseSalary:   base,
		TotalSalary:  TotalSalary(base, bonusPercent),
	}
	msg := fmt.Sprintf("Payroll added for %s: Total Salary = $%.2f", entry.EmployeeName, entry.TotalSalary)
	return entry, msg, nil
}
