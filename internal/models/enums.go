package models

// Rental / sale lifecycle
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Rental return state
const (
	ReturnNotReturned       = "NOT_RETURNED"
	ReturnReturned          = "RETURNED"
	ReturnPartiallyReturned = "PARTIALLY_RETURNED"
	ReturnDamaged           = "DAMAGED"
)

// Payment methods
const (
	PaymentCash     = "CASH"
	PaymentCheque   = "CHEQUE"
	PaymentTraite   = "TRAITE"
	PaymentCNAM     = "CNAM"
	PaymentVirement = "VIREMENT"
	PaymentMondat   = "MONDAT"
)

// Payment settlement state (online checkout)
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusPaid      = "PAID"
	PaymentStatusCancelled = "CANCELLED"
)

// Appointment state
const (
	AppointmentScheduled = "SCHEDULED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
)

// Rental item kinds
const (
	ItemDevice    = "DEVICE"
	ItemAccessory = "ACCESSORY"
)

// Role IDs
const (
	RoleAdmin      uint = 1
	RoleStaff      uint = 2
	RoleTechnician uint = 3
)
