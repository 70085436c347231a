// internal/domain/customer/dto.go
package customer

type Profile struct {
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Customer string   `json:"customer,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"max=255"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Phone    string `json:"phone" binding:"max=40"`
}

type SaveAddressRequest struct {
	Name        string `json:"name"`
	Title       string `json:"address_title" binding:"max=255"`
	AddressType string `json:"address_type" binding:"omitempty,oneof=Shipping Billing"`
	Line1       string `json:"address_line1" binding:"max=255"`
	Line2       string `json:"address_line2" binding:"max=255"`
	City        string `json:"city" binding:"max=120"`
	State       string `json:"state" binding:"max=120"`
	Pincode     string `json:"pincode" binding:"max=20"`
	Country     string `json:"country" binding:"max=120"`
	Phone       string `json:"phone" binding:"max=40"`
}
