package dto

// EnrollmentRequest enrolls a student into a course.
type EnrollmentRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// EnrollmentResponse reports the roster state after an enrollment attempt.
type EnrollmentResponse struct {
	CourseID        uint `json:"course_id"`
	StudentID       uint `json:"student_id"`
	Students        int  `json:"students"`
	AlreadyEnrolled bool `json:"already_enrolled"`
}

// BookingRequest books a one-on-one lesson: enroll into the course and
// optionally consume the availability slot that was claimed for it.
type BookingRequest struct {
	CourseID  uint `json:"course_id" validate:"required"`
	StudentID uint `json:"student_id" validate:"required"`
	SlotID    uint `json:"slot_id"`
}

// BookingResponse summarises the outcome of a lesson booking.
type BookingResponse struct {
	Enrollment      EnrollmentResponse `json:"enrollment"`
	DurationMinutes int                `json:"duration_minutes"`
	SlotReleased    bool               `json:"slot_released"`
}
