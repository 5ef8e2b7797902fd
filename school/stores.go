package school

import (
	"github.com/campusops/go-entity-cache/entitycache"
	"github.com/campusops/go-entity-cache/gateway"
)

// ClassIndexes declares the grouping dimensions maintained for classes.
func ClassIndexes() []entitycache.IndexSpec[Class] {
	return []entitycache.IndexSpec[Class]{
		{Name: "branch_id", Key: func(c Class) (string, bool) { return c.BranchID, c.BranchID != "" }},
		{Name: "teacher_id", Key: func(c Class) (string, bool) { return c.TeacherID, c.TeacherID != "" }},
	}
}

// EnrollmentIndexes declares the grouping dimensions maintained for
// enrollments.
func EnrollmentIndexes() []entitycache.IndexSpec[Enrollment] {
	return []entitycache.IndexSpec[Enrollment]{
		{Name: "class_id", Key: func(e Enrollment) (string, bool) { return e.ClassID, e.ClassID != "" }},
		{Name: "student_id", Key: func(e Enrollment) (string, bool) { return e.StudentID, e.StudentID != "" }},
	}
}

// AttendanceIndexes declares the grouping dimensions maintained for
// attendance records.
func AttendanceIndexes() []entitycache.IndexSpec[AttendanceRecord] {
	return []entitycache.IndexSpec[AttendanceRecord]{
		{Name: "student_id", Key: func(a AttendanceRecord) (string, bool) { return a.StudentID, a.StudentID != "" }},
		{Name: "class_id", Key: func(a AttendanceRecord) (string, bool) { return a.ClassID, a.ClassID != "" }},
		{Name: "date", Key: func(a AttendanceRecord) (string, bool) { return a.Date, a.Date != "" }},
	}
}

// NewClassStore builds the cached class store over the given gateway.
func NewClassStore(gw gateway.Gateway[Class], opts ...entitycache.Option[Class]) *entitycache.Store[Class] {
	return entitycache.New("class", gw, ClassIndexes(), opts...)
}

// ClassDetailIndexes declares the grouping dimensions maintained for expanded
// class views. They mirror the class dimensions so detail views group the same
// way plain classes do.
func ClassDetailIndexes() []entitycache.IndexSpec[ClassDetail] {
	return []entitycache.IndexSpec[ClassDetail]{
		{Name: "branch_id", Key: func(d ClassDetail) (string, bool) { return d.Class.BranchID, d.Class.BranchID != "" }},
		{Name: "teacher_id", Key: func(d ClassDetail) (string, bool) { return d.Class.TeacherID, d.Class.TeacherID != "" }},
	}
}

// NewClassDetailStore builds the cached store for expanded class views. The
// gateway is expected to resolve teacher and branch records server-side; the
// store never merges details onto a plain cached Class.
func NewClassDetailStore(gw gateway.Gateway[ClassDetail], opts ...entitycache.Option[ClassDetail]) *entitycache.Store[ClassDetail] {
	return entitycache.New("class_detail", gw, ClassDetailIndexes(), opts...)
}

// NewEnrollmentStore builds the cached enrollment store over the given
// gateway.
func NewEnrollmentStore(gw gateway.Gateway[Enrollment], opts ...entitycache.Option[Enrollment]) *entitycache.Store[Enrollment] {
	return entitycache.New("enrollment", gw, EnrollmentIndexes(), opts...)
}

// NewAttendanceStore builds the cached attendance store over the given
// gateway.
func NewAttendanceStore(gw gateway.Gateway[AttendanceRecord], opts ...entitycache.Option[AttendanceRecord]) *entitycache.Store[AttendanceRecord] {
	return entitycache.New("attendance", gw, AttendanceIndexes(), opts...)
}
