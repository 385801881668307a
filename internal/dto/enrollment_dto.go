package dto

// EnrollmentCreateRequest enrolls the current user into a course.
type EnrollmentCreateRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// LessonProgressRequest reports watch progress on one lesson.
type LessonProgressRequest struct {
	WatchTime int  `json:"watch_time" validate:"gte=0"`
	Completed bool `json:"completed"`
}
