package dto

import (
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	StaffID     uint      `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Completed   bool      `json:"completed"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ServiceName string    `json:"service_name"`
	Observation string    `json:"observation"`
}

func AppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			StaffID:     ap.StaffID,
			StaffName:   ap.Staff.Name,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Completed:   ap.Completed,
			ClientName:  ap.Client.Name,
			ClientPhone: ap.Client.Phone,
			ServiceName: ap.Service.Name,
			Observation: ap.Observation,
		})
	}
	return out
}
