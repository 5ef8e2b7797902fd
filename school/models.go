// Package school defines the cached entity types for the school-management
// client: classes, enrollments, and attendance records, plus their grouping
// dimensions and input validation rules.
package school

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"
)

// DateLayout is the wire format for attendance dates.
const DateLayout = "2006-01-02"

// Class is a taught class within one branch, optionally assigned to a
// teacher. The id is assigned by the gateway on creation.
type Class struct {
	bun.BaseModel `bun:"table:classes"`

	ID        string    `bun:"id,pk" json:"id"`
	BranchID  string    `bun:"branch_id,notnull" json:"branch_id"`
	TeacherID string    `bun:"teacher_id" json:"teacher_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Subject   string    `bun:"subject" json:"subject"`
	Capacity  int       `bun:"capacity" json:"capacity"`
	CreatedAt time.Time `bun:"created_at,nullzero" json:"created_at"`
}

// EntityID implements entitycache.Entity.
func (c Class) EntityID() string { return c.ID }

// Validate implements validation.Validatable for create/update input.
func (c Class) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.BranchID, validation.Required),
		validation.Field(&c.TeacherID, is.UUIDv4),
		validation.Field(&c.Capacity, validation.Min(0), validation.Max(500)),
	)
}

// EnrollmentStatus enumerates the lifecycle of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment links a student to a class.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments"`

	ID         string           `bun:"id,pk" json:"id"`
	ClassID    string           `bun:"class_id,notnull" json:"class_id"`
	StudentID  string           `bun:"student_id,notnull" json:"student_id"`
	Status     EnrollmentStatus `bun:"status,notnull" json:"status"`
	EnrolledAt time.Time        `bun:"enrolled_at,nullzero" json:"enrolled_at"`
}

// EntityID implements entitycache.Entity.
func (e Enrollment) EntityID() string { return e.ID }

// Validate implements validation.Validatable for create/update input.
func (e Enrollment) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ClassID, validation.Required),
		validation.Field(&e.StudentID, validation.Required),
		validation.Field(&e.Status, validation.Required, validation.In(
			EnrollmentActive, EnrollmentCompleted, EnrollmentDropped,
		)),
	)
}

// AttendanceStatus enumerates the attendance marks a teacher can record.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceRecord is one student's attendance mark for one class on one
// date. Date is kept in wire format so it doubles as a grouping key.
type AttendanceRecord struct {
	bun.BaseModel `bun:"table:attendance_records"`

	ID        string           `bun:"id,pk" json:"id"`
	StudentID string           `bun:"student_id,notnull" json:"student_id"`
	ClassID   string           `bun:"class_id,notnull" json:"class_id"`
	Date      string           `bun:"date,notnull" json:"date"`
	Status    AttendanceStatus `bun:"status,notnull" json:"status"`
	MarkedBy  string           `bun:"marked_by" json:"marked_by"`
}

// EntityID implements entitycache.Entity.
func (a AttendanceRecord) EntityID() string { return a.ID }

// Validate implements validation.Validatable for create/update input.
func (a AttendanceRecord) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.StudentID, validation.Required),
		validation.Field(&a.ClassID, validation.Required),
		validation.Field(&a.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&a.Status, validation.Required, validation.In(
			AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused,
		)),
	)
}

// Teacher and Branch are reference records attached to a ClassDetail. They
// are owned by their own remote tables and never cached inside a Class.
type Teacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassDetail is the relations variant of Class: a class together with its
// resolved teacher and branch records. It is a distinct type rather than
// optional fields on Class, so a plain cached Class and an expanded detail
// view can never be confused for one another.
type ClassDetail struct {
	Class   Class
	Teacher Teacher
	Branch  Branch
}

// EntityID implements entitycache.Entity. A detail view shares its class id,
// but lives in its own store.
func (d ClassDetail) EntityID() string { return d.Class.ID }
