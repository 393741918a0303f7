package reports

import (
	"context"
	"time"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/mappings"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/store"
)

const rosterPageLimit = 10000

// Generator assembles a roster snapshot for a single user.
type Generator struct {
	patients patients.Service
	doctors  doctors.Service
	mappings mappings.Service
}

func NewGenerator(patientsService patients.Service, doctorsService doctors.Service, mappingsService mappings.Service) (*Generator, error) {
	return &Generator{
		patients: patientsService,
		doctors:  doctorsService,
		mappings: mappingsService,
	}, nil
}

func (g *Generator) BuildRoster(ctx context.Context, userId string) (*Roster, error) {
	page := store.DefaultPagination().WithLimit(rosterPageLimit)

	patientList, err := g.patients.List(ctx, &patients.Filter{CreatedBy: userId}, page, nil)
	if err != nil {
		return nil, err
	}
	doctorList, err := g.doctors.List(ctx, &doctors.Filter{}, page, nil)
	if err != nil {
		return nil, err
	}
	mappingList, err := g.mappings.List(ctx, userId, &mappings.Filter{}, page)
	if err != nil {
		return nil, err
	}

	patientStats, err := g.patients.Stats(ctx, userId)
	if err != nil {
		return nil, err
	}
	doctorStats, err := g.doctors.Stats(ctx)
	if err != nil {
		return nil, err
	}
	mappingStats, err := g.mappings.Stats(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &Roster{
		GeneratedAt:  time.Now(),
		Patients:     patientList,
		Doctors:      doctorList,
		Mappings:     mappingList,
		PatientStats: patientStats,
		DoctorStats:  doctorStats,
		MappingStats: mappingStats,
	}, nil
}
