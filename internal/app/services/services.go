// Services defined in this package:
// - AuthService: registration and session token issuance
// - UserService: user and role management
// - CourseService: course approval lifecycle and catalog views
// - EnrollmentService: select, pay, enroll coordination
package services
