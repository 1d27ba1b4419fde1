package service

import (
	"context"
	"errors"
	"strings"

	"laundry_backend/internal/addresses/repository"
	"laundry_backend/internal/addresses/transport"
	"laundry_backend/internal/addressflow"
	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/metrics"
	"laundry_backend/internal/resolver"
	"laundry_backend/platform/apperr"
	"laundry_backend/platform/logger"
	"laundry_backend/platform/validator"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

// duplicateDistance is the largest edit distance between two normalized full
// addresses that still counts as the same place.
const duplicateDistance = 3

// Service holds the address book business logic.
type Service struct {
	repo        repository.Repository
	names       *resolver.NameValidator
	val         *validator.Validator
	phoneRegion string
	log         *logger.Logger
}

// New creates a new address book service.
func New(repo repository.Repository, store *gazetteer.Store, val *validator.Validator, phoneRegion string, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		names:       resolver.NewNameValidator(store),
		val:         val,
		phoneRegion: phoneRegion,
		log:         log,
	}
}

// Save replays the confirmation steps for a client-submitted address and
// stores the result. The same floor/door gate as the interactive flow
// applies.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, req transport.SaveAddressRequest) (transport.AddressResponse, error) {
	draft := req.Location.Draft()

	// The client echoes what the resolver produced; it is re-checked so a
	// generated or administrative name cannot be stored as estate or building.
	if draft.Estate != "" && !s.names.IsValidEstateName(draft.Estate) {
		draft.Estate = ""
	}
	if draft.Building != "" && !resolver.IsValidBuildingName(draft.Building) {
		draft.Building = ""
	}

	record, err := s.confirm(draft, req)
	if err != nil {
		return transport.AddressResponse{}, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return transport.AddressResponse{}, err
	}
	if dup, ok := findDuplicate(existing, record); ok {
		return transport.AddressResponse{}, apperr.Conflict("this address is already in your address book").
			WithOp("addresses.Save").
			WithDetails(map[string]string{"id": dup.ID.String()})
	}

	saved, err := s.repo.Create(ctx, userID, *record)
	if err != nil {
		return transport.AddressResponse{}, err
	}
	metrics.AddressesSaved.Inc()
	s.log.WithContext(ctx).Info("address saved", "address_id", saved.ID, "place_type", record.PlaceType)

	return toResponse(saved), nil
}

// List returns the user's address book.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (transport.AddressListResponse, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return transport.AddressListResponse{}, err
	}

	resp := transport.AddressListResponse{Items: make([]transport.AddressResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toResponse(item))
	}
	return resp, nil
}

// Get returns one address of the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (transport.AddressResponse, error) {
	item, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return transport.AddressResponse{}, err
	}
	return toResponse(item), nil
}

// Delete removes one address of the user.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) confirm(draft *resolver.AddressComponents, req transport.SaveAddressRequest) (*resolver.AddressComponents, error) {
	flow := addressflow.New(s.val, s.phoneRegion)

	if err := flow.SetDraft(draft); err != nil {
		return nil, apperr.Internal("address flow").WithOp("addresses.Save")
	}
	if err := flow.ConfirmLocation(); err != nil {
		return nil, apperr.Validation("a confirmed location is required").WithOp("addresses.Save")
	}
	if err := flow.SelectPlaceType(resolver.PlaceType(req.PlaceType)); err != nil {
		return nil, toAppErr(err)
	}

	label, _ := resolver.ParseLabel(req.Label)
	if err := flow.SetDetails(addressflow.Details{
		BuildingName:   req.BuildingName,
		FloorNumber:    req.FloorNumber,
		DoorNumber:     req.DoorNumber,
		AdditionalInfo: req.AdditionalInfo,
		Label:          label,
		ContactPhone:   req.ContactPhone,
	}); err != nil {
		return nil, toAppErr(err)
	}

	record, err := flow.Save()
	if err != nil {
		return nil, toAppErr(err)
	}
	return record, nil
}

func toAppErr(err error) error {
	var verr *addressflow.ValidationError
	if errors.As(err, &verr) {
		return apperr.Validation("validation failed").WithOp("addresses.Save").WithDetails(verr.Fields)
	}
	return apperr.Wrap(apperr.KindInternal, "address flow", err).WithOp("addresses.Save")
}

// findDuplicate reports an existing entry with the same floor and door whose
// full address differs by at most duplicateDistance edits.
func findDuplicate(existing []repository.Address, record *resolver.AddressComponents) (repository.Address, bool) {
	target := normalizeAddress(record.FullAddress)
	for _, e := range existing {
		c := e.Components
		if !strings.EqualFold(c.FloorNumber, record.FloorNumber) || !strings.EqualFold(c.DoorNumber, record.DoorNumber) {
			continue
		}
		if levenshtein.ComputeDistance(normalizeAddress(c.FullAddress), target) <= duplicateDistance {
			return e, true
		}
	}
	return repository.Address{}, false
}

func normalizeAddress(s string) string {
	return strings.Join(strings.Fields(gazetteer.Normalize(s)), " ")
}

func toResponse(a repository.Address) transport.AddressResponse {
	return transport.AddressResponse{
		ID:                a.ID,
		AddressComponents: a.Components,
		CreatedAt:         a.CreatedAt,
	}
}
