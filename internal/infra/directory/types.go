package directory

import "fmt"

// Credentials is the login payload forwarded verbatim to the user service.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is the slice of the user-service profile the gateway cares about.
type Account struct {
	UUID        string `json:"uuid"`
	Email       string `json:"email"`
	IsShopOwner bool   `json:"is_shop_owner"`
}

// Shop is the shop-service record keyed by owner.
type Shop struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// StatusError carries a non-2xx upstream response so transport can relay
// the original status and body to the client.
type StatusError struct {
	Service string
	Code    int
	Body    []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s service returned status %d", e.Service, e.Code)
}
