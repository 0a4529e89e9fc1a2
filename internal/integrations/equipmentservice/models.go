package equipmentservice

import "github.com/m04kA/LRM-SchedulingEngine/internal/domain"

// Equipment запись каталога оборудования
type Equipment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`      // available | in_use | maintenance | out_of_service
	AutoApprove bool   `json:"autoApprove"` // бронирования подтверждаются без решения сотрудника
}

// ToDomain конвертирует запись каталога в domain-модель
func (e *Equipment) ToDomain() *domain.Equipment {
	return &domain.Equipment{
		ID:          e.ID,
		Name:        e.Name,
		Status:      domain.EquipmentStatus(e.Status),
		AutoApprove: e.AutoApprove,
	}
}
