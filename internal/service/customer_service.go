package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"comptoir/internal/database"
	"comptoir/internal/domain"
	"comptoir/internal/events"
	"comptoir/internal/models"

	"github.com/rs/zerolog"
)

type CustomerService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewCustomerService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *CustomerService {
	return &CustomerService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *CustomerService) RegisterCustomer(ctx context.Context, customer *models.Customer) error {
	customer.LastName = titleCase(customer.LastName)
	customer.FirstName = titleCase(customer.FirstName)
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.City = titleCase(customer.City)

	if customer.LastName == "" || customer.FirstName == "" {
		return database.ErrMissingField
	}
	if !validEmail(customer.Email) {
		return database.ErrInvalidEmail
	}

	if _, err := s.repo.GetCustomerByEmail(ctx, customer.Email); err == nil {
		return database.ErrDuplicateEmail
	} else if !errors.Is(err, database.ErrCustomerNotFound) {
		return err
	}

	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		if isUniqueViolation(err) {
			return database.ErrDuplicateEmail
		}
		return err
	}

	s.publishCustomerEvent(events.EventCustomerCreated, customer)
	return nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}

func (s *CustomerService) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return s.repo.GetCustomerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.repo.GetAllCustomers(ctx)
}

func (s *CustomerService) SearchCustomers(ctx context.Context, term string) ([]*models.Customer, error) {
	return s.repo.SearchCustomers(ctx, strings.TrimSpace(term))
}

// UpdateCustomer applies a partial update and returns the number of rows
// changed. An empty patch is a no-op, not an error; an unknown id is
// ErrCustomerNotFound.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, patch models.CustomerPatch) (int64, error) {
	if patch.IsEmpty() {
		return 0, nil
	}

	if patch.LastName != nil {
		normalized := titleCase(*patch.LastName)
		if normalized == "" {
			return 0, database.ErrMissingField
		}
		patch.LastName = &normalized
	}
	if patch.FirstName != nil {
		normalized := titleCase(*patch.FirstName)
		if normalized == "" {
			return 0, database.ErrMissingField
		}
		patch.FirstName = &normalized
	}
	if patch.City != nil {
		normalized := titleCase(*patch.City)
		patch.City = &normalized
	}
	if patch.Phone != nil {
		normalized := strings.TrimSpace(*patch.Phone)
		patch.Phone = &normalized
	}
	if patch.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !validEmail(normalized) {
			return 0, database.ErrInvalidEmail
		}
		// another customer may already hold the address
		if existing, err := s.repo.GetCustomerByEmail(ctx, normalized); err == nil {
			if existing.ID != id {
				return 0, database.ErrDuplicateEmail
			}
		} else if !errors.Is(err, database.ErrCustomerNotFound) {
			return 0, err
		}
		patch.Email = &normalized
	}

	rows, err := s.repo.UpdateCustomer(ctx, id, patch)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, database.ErrDuplicateEmail
		}
		return 0, err
	}
	// a non-empty patch that touched nothing means the id is absent
	if rows == 0 {
		return 0, database.ErrCustomerNotFound
	}
	return rows, nil
}

// DeleteCustomer removes a customer without transaction history. Customers
// referenced by the ledger are kept so past revenue stays attributable.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	rows, err := s.repo.DeleteCustomer(ctx, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return database.ErrHasTransactions
		}
		return err
	}
	if rows == 0 {
		return database.ErrCustomerNotFound
	}
	return nil
}

func (s *CustomerService) publishCustomerEvent(eventType string, customer *models.Customer) {
	if s.eventBus == nil {
		return
	}

	payload := events.CustomerEventPayload{
		CustomerID: customer.ID,
		Name:       customer.FullName(),
		Email:      customer.Email,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("customer_id", customer.ID).Msg("publish event error")
	}
}

// validEmail accepts local@domain where the domain has at least one dot.
// Registration cares about catching typos, not RFC 5322.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// titleCase trims and capitalizes each word, including hyphenated parts,
// so "jean-pierre  dupont" becomes "Jean-Pierre Dupont".
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	startOfWord := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r == ' ' || r == '-':
			if r == ' ' && b.Len() > 0 && strings.HasSuffix(b.String(), " ") {
				continue // collapse runs of spaces
			}
			b.WriteRune(r)
			startOfWord = true
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), " ")
}
