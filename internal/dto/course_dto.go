package dto

// CourseCreateRequest is the admin payload for publishing a course.
type CourseCreateRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Category      string `json:"category" validate:"max=128"`
	ThumbnailURL  string `json:"thumbnail_url" validate:"omitempty,url"`
	TotalDuration int    `json:"total_duration" validate:"gte=0"`
}

// CourseUpdateRequest carries partial course updates.
type CourseUpdateRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description   *string `json:"description,omitempty"`
	Difficulty    *string `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Category      *string `json:"category,omitempty" validate:"omitempty,max=128"`
	ThumbnailURL  *string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	TotalDuration *int    `json:"total_duration,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// LessonCreateRequest is the admin payload for adding a lesson to a course.
type LessonCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	Duration    int    `json:"duration" validate:"gte=0"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}
