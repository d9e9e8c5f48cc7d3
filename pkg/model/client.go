package model

// Client 委托样品送检的客户
type Client struct {
	BaseModel
	Name                string `gorm:"type:varchar(200);not null;index:idx_client_name" json:"name"`
	ContactPerson       string `gorm:"type:varchar(200)" json:"contact_person"`
	Email               string `gorm:"type:varchar(254)" json:"email"`
	Phone               string `gorm:"type:varchar(20)" json:"phone"`
	Address             string `gorm:"type:text" json:"address"`
	CompanyRegistration string `gorm:"type:varchar(100)" json:"company_registration"`
	IsActive            bool   `gorm:"not null;default:true" json:"is_active"`
}

func (*Client) TableName() string { return "client" }
