package entity

import "time"

// Class groups students under one owning teacher
type Class struct {
	ID        string
	Name      string
	TeacherID string
	CreatedAt time.Time
}

// IsOwnedBy reports whether teacherID owns the class
func (c *Class) IsOwnedBy(teacherID string) bool {
	return c.TeacherID == teacherID
}

// Prize is a catalog item students can redeem
type Prize struct {
	ID          string
	Name        string
	Description string
	Cost        int64 // Zero marks a crowdfunded prize
	Available   bool
	CreatedBy   string
	CreatedAt   time.Time
}

// IsCrowdfunded reports whether the student chooses the contribution
func (p *Prize) IsCrowdfunded() bool {
	return p.Cost == 0
}

// Goal is a catalog achievement worth points
type Goal struct {
	ID          string
	Title       string
	Description string
	Points      int64
	ClassIDs    []string // Classes the goal is offered in; empty means every class
	CreatedBy   string
	CreatedAt   time.Time
}

// OfferedIn reports whether the goal can be claimed from classID
func (g *Goal) OfferedIn(classID string) bool {
	if len(g.ClassIDs) == 0 {
		return true
	}
	for _, id := range g.ClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}
