package dto

type BorrowerInfoDTO struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	RentalPrice    string `json:"rental_price"`
	SupervisorName string `json:"supervisor_name"`
}

type ReturnDTO struct {
	BorrowID  uint64 `json:"borrow_id" validate:"required"`
	Mode      string `json:"mode" validate:"required,oneof=equipment books"`
	Confirmed bool   `json:"confirmed"`
}

type CartAddDTO struct {
	ItemID uint64 `json:"item_id" validate:"required"`
}

type ModeDTO struct {
	Mode string `json:"mode" validate:"required,oneof=equipment books"`
}
