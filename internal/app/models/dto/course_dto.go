package dto

// CreateCourseRequest is the instructor payload for submitting a course
type CreateCourseRequest struct {
	Name     string  `json:"name" binding:"required,max=128" example:"Watercolor Basics"`
	ImageURL string  `json:"imageUrl" binding:"omitempty,url"`
	Price    float64 `json:"price" binding:"required,gt=0" example:"20.00"`
	Seats    int     `json:"seats" binding:"required,gte=0" example:"25"`
}

// DecideCourseRequest is the admin payload for approving or denying a course
type DecideCourseRequest struct {
	Status   string `json:"status" binding:"required,oneof=approved denied" example:"approved"`
	Feedback string `json:"feedback" binding:"omitempty,max=500" example:"Syllabus too thin, please resubmit"`
}
