package db_models

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type MembershipLevel string

const (
	MembershipBasic   MembershipLevel = "BASIC"
	MembershipPremium MembershipLevel = "PREMIUM"
)

type LevelTestProgress string

const (
	LevelTestNotStarted LevelTestProgress = "NOT_STARTED"
	LevelTestInProgress LevelTestProgress = "IN_PROGRESS"
	LevelTestCompleted  LevelTestProgress = "COMPLETED"
)

type CourseStatus string

const (
	CourseInProgress        CourseStatus = "IN_PROGRESS"
	CoursePendingCompletion CourseStatus = "PENDING_COMPLETION"
	CourseAfterCompletion   CourseStatus = "AFTER_COMPLETION"
)

type Customer struct {
	BaseModel
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	Phone        string `gorm:"index"`

	Role Role `gorm:"default:CUSTOMER;index"`

	MembershipLevel     MembershipLevel `gorm:"default:BASIC;index"`
	MembershipExpiredAt *int64

	LevelTestStatus LevelTestProgress `gorm:"default:NOT_STARTED"`
	CourseStatus    CourseStatus      `gorm:"default:IN_PROGRESS;index"`
}

func (c *Customer) ExpireMembership() {
	c.MembershipLevel = MembershipBasic
	c.MembershipExpiredAt = nil
}
