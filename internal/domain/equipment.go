package domain

// EquipmentStatus represents the operational status of a piece of
// equipment. The engine only reads this status - the equipment
// directory owns it.
type EquipmentStatus string

const (
	EquipmentAvailable    EquipmentStatus = "available"
	EquipmentInUse        EquipmentStatus = "in_use"
	EquipmentMaintenance  EquipmentStatus = "maintenance"
	EquipmentOutOfService EquipmentStatus = "out_of_service"
)

// Equipment is the engine's read-only view of an equipment directory
// entry. A pending booking may be created for any status; approval is
// refused while the equipment is out_of_service.
type Equipment struct {
	ID     int64
	Name   string
	Status EquipmentStatus

	// AutoApprove политика оборудования: бронирования создаются сразу
	// в статусе approved, без явного решения сотрудника
	AutoApprove bool
}

// CanBeApproved returns true if bookings for this equipment may be
// approved right now. Re-checked at approval time, never cached from
// creation time.
func (e *Equipment) CanBeApproved() bool {
	return e.Status != EquipmentOutOfService
}
