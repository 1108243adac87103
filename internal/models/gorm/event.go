package gorm

import "time"

type AviationEvent struct {
	ID                   string    `gorm:"column:id;primaryKey;type:uuid"`
	ProjectID            string    `gorm:"column:project_id;type:uuid;index"`
	Title                string    `gorm:"column:title"`
	OccurrenceDate       time.Time `gorm:"column:occurrence_date;index"`
	AircraftType         string    `gorm:"column:aircraft_type"`
	FlightNumber         string    `gorm:"column:flight_number"`
	DepartureAirport     string    `gorm:"column:departure_airport"`
	ArrivalAirport       string    `gorm:"column:arrival_airport"`
	ActualLandingAirport string    `gorm:"column:actual_landing_airport"`
	Summary              string    `gorm:"column:summary"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Items        []LabelingItem      `gorm:"foreignKey:EventID"`
	Performances []ResultPerformance `gorm:"foreignKey:EventID"`
}

// TableName specifies the table name for GORM
func (AviationEvent) TableName() string {
	return "aviation_events"
}
