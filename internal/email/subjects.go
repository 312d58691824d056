package email

const (
	subjectWelcome       = "Welcome to CourseHub"
	subjectEnrollmentFmt = "You are enrolled in %s"
	subjectContactFmt    = "New contact message from %s"
)
