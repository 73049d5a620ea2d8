package antecedent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cpn/cpn/internal/platform/cache"
)

type Service struct {
	definitions DefinitionRepository
	records     PatientAntecedentRepository
	patients    PatientLookup
	cache       *cache.Cache
	logger      zerolog.Logger
}

func NewService(
	definitions DefinitionRepository,
	records PatientAntecedentRepository,
	patients PatientLookup,
	defCache *cache.Cache,
	logger zerolog.Logger,
) *Service {
	return &Service{
		definitions: definitions,
		records:     records,
		patients:    patients,
		cache:       defCache,
		logger:      logger,
	}
}

func defCacheKey(id uuid.UUID) string { return "antecedent:def:" + id.String() }

// -- Schema Registry --

// CreateDefinition persists a definition with its full field list in one
// atomic operation. Field codes must be unique within the submission and
// the definition code must not already be taken.
func (s *Service) CreateDefinition(ctx context.Context, in CreateDefinitionInput) (*Definition, error) {
	if in.Code == "" {
		return nil, fmt.Errorf("code is required")
	}
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	seen := make(map[string]bool, len(in.Fields))
	for _, f := range in.Fields {
		if f.Code == "" {
			return nil, fmt.Errorf("field code is required")
		}
		if !f.Type.Valid() {
			return nil, fmt.Errorf("field %q: invalid type %q", f.Code, f.Type)
		}
		if seen[f.Code] {
			return nil, fmt.Errorf("field %q: %w", f.Code, ErrDuplicateFieldCode)
		}
		seen[f.Code] = true
	}

	d := &Definition{
		Code:           in.Code,
		Name:           in.Name,
		Description:    in.Description,
		AntecedentType: in.AntecedentType,
		Active:         true,
	}
	for _, f := range in.Fields {
		d.Fields = append(d.Fields, &FieldDefinition{
			Code:         f.Code,
			Label:        f.Label,
			Type:         f.Type,
			Required:     f.Required,
			DisplayOrder: f.DisplayOrder,
			Constraints:  f.Constraints,
			UI:           f.UI,
		})
	}
	sort.SliceStable(d.Fields, func(i, j int) bool {
		return d.Fields[i].DisplayOrder < d.Fields[j].DisplayOrder
	})

	if err := s.definitions.CreateWithFields(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("code", d.Code).Int("fields", len(d.Fields)).Msg("antecedent definition created")
	return d, nil
}

// GetDefinition reads a definition by id, serving read-mostly traffic
// from the cache when one is configured.
func (s *Service) GetDefinition(ctx context.Context, id uuid.UUID) (*Definition, error) {
	if s.cache != nil {
		var cached Definition
		if err := s.cache.GetJSON(ctx, defCacheKey(id), &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn().Err(err).Msg("definition cache read failed")
		}
	}
	d, err := s.definitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, defCacheKey(id), d); err != nil {
			s.logger.Warn().Err(err).Msg("definition cache write failed")
		}
	}
	return d, nil
}

func (s *Service) GetDefinitionByCode(ctx context.Context, code string) (*Definition, error) {
	return s.definitions.GetByCode(ctx, code)
}

// ListDefinitions returns definitions; activeOnly restricts the result
// to those eligible for new-form issuance.
func (s *Service) ListDefinitions(ctx context.Context, activeOnly bool, limit, offset int) ([]*Definition, int, error) {
	return s.definitions.List(ctx, activeOnly, limit, offset)
}

// DeactivateDefinition excludes a definition from new-form issuance.
// Existing patient answers referencing it remain readable.
func (s *Service) DeactivateDefinition(ctx context.Context, id uuid.UUID) error {
	if err := s.definitions.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, defCacheKey(id)); err != nil {
		s.logger.Warn().Err(err).Msg("definition cache invalidation failed")
	}
}

// UpdateField always fails: fields only change through a full definition
// create in this scope.
func (s *Service) UpdateField(ctx context.Context, definitionID, fieldID uuid.UUID) error {
	return ErrFieldEditUnsupported
}

// DeleteField always fails, same as UpdateField.
func (s *Service) DeleteField(ctx context.Context, definitionID, fieldID uuid.UUID) error {
	return ErrFieldEditUnsupported
}

// -- Patient Antecedent Store --

// Upsert stores a patient's answers for a definition, replacing any
// previous values for the (patient, definition) pair wholesale. The
// patient and definition must exist and the values must validate
// against the definition's fields.
func (s *Service) Upsert(ctx context.Context, patientID, definitionID uuid.UUID, values Values, actor string) (*PatientAntecedent, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient lookup: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	def, err := s.GetDefinition(ctx, definitionID)
	if err != nil {
		return nil, err
	}

	if violations := Validate(def, values); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if actor == "" {
		actor = "system"
	}
	now := time.Now().UTC()

	existing, err := s.records.Get(ctx, patientID, definitionID)
	switch {
	case err == nil:
		existing.Values = values
		existing.RecordedAt = now
		existing.RecordedBy = actor
		if err := s.records.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, ErrRecordNotFound):
		pa := &PatientAntecedent{
			PatientID:    patientID,
			DefinitionID: definitionID,
			Values:       values,
			RecordedAt:   now,
			RecordedBy:   actor,
		}
		err := s.records.Insert(ctx, pa)
		if errors.Is(err, ErrPairConflict) {
			// Lost the race against a concurrent first upsert for the
			// same pair; the unique constraint is the authority, so
			// retry once as an update.
			s.logger.Debug().
				Str("patient_id", patientID.String()).
				Str("definition_id", definitionID.String()).
				Msg("insert conflict on patient antecedent, retrying as update")
			return s.retryAsUpdate(ctx, patientID, definitionID, values, actor, now)
		}
		if err != nil {
			return nil, err
		}
		return pa, nil
	default:
		return nil, err
	}
}

func (s *Service) retryAsUpdate(ctx context.Context, patientID, definitionID uuid.UUID, values Values, actor string, now time.Time) (*PatientAntecedent, error) {
	existing, err := s.records.Get(ctx, patientID, definitionID)
	if err != nil {
		return nil, ErrPairConflict
	}
	existing.Values = values
	existing.RecordedAt = now
	existing.RecordedBy = actor
	if err := s.records.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) GetPatientAntecedent(ctx context.Context, patientID, definitionID uuid.UUID) (*PatientAntecedent, error) {
	return s.records.Get(ctx, patientID, definitionID)
}

func (s *Service) ListPatientAntecedents(ctx context.Context, limit, offset int) ([]*PatientAntecedent, int, error) {
	return s.records.List(ctx, limit, offset)
}

func (s *Service) ListPatientAntecedentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientAntecedent, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}
