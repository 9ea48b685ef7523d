package rosterpb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/roundrobin/internal/model"
)

// ErrField is wrapped by all decoding errors.
var ErrField = fmt.Errorf("%w: bad request field", model.ErrValidation)

// NewStruct builds a Struct, panicking on values structpb cannot represent.
// Callers only pass strings, numbers, bools, []any and map[string]any.
func NewStruct(fields map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		panic(fmt.Sprintf("rosterpb: %v", err))
	}
	return s
}

// Empty returns an empty Struct.
func Empty() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}

func String(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func Bool(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

func Int(s *structpb.Struct, key string) int {
	return int(s.GetFields()[key].GetNumberValue())
}

// UUID parses a required uuid field.
func UUID(s *structpb.Struct, key string) (uuid.UUID, error) {
	raw := String(s, key)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrField, key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a uuid", ErrField, key)
	}
	return id, nil
}

// UUIDs parses a list of uuid strings.
func UUIDs(s *structpb.Struct, key string) ([]uuid.UUID, error) {
	values := s.GetFields()[key].GetListValue().GetValues()
	ids := make([]uuid.UUID, 0, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v.GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d] is not a uuid", ErrField, key, i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func UUIDList(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func EncodeEntry(e model.Entry) map[string]any {
	return map[string]any{
		"id":           e.ID.String(),
		"account_id":   e.AccountID.String(),
		"name":         e.Name,
		"phone_number": e.PhoneNumber,
		"status":       string(e.Status),
		"order":        e.Order,
		"created_at":   Time(e.CreatedAt),
		"updated_at":   Time(e.UpdatedAt),
	}
}

func EncodeEntries(entries []model.Entry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = EncodeEntry(e)
	}
	return out
}

func DecodeEntry(s *structpb.Struct) (model.Entry, error) {
	id, err := UUID(s, "id")
	if err != nil {
		return model.Entry{}, err
	}
	accountID, _ := uuid.Parse(String(s, "account_id"))
	return model.Entry{
		ID:          id,
		AccountID:   accountID,
		Name:        String(s, "name"),
		PhoneNumber: String(s, "phone_number"),
		Status:      model.Status(String(s, "status")),
		Order:       Int(s, "order"),
		CreatedAt:   parseTime(String(s, "created_at")),
		UpdatedAt:   parseTime(String(s, "updated_at")),
	}, nil
}

// DecodeEntries reads the list under key.
func DecodeEntries(s *structpb.Struct, key string) ([]model.Entry, error) {
	values := s.GetFields()[key].GetListValue().GetValues()
	entries := make([]model.Entry, 0, len(values))
	for _, v := range values {
		e, err := DecodeEntry(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func EncodeAccount(a model.Account, role model.Role) map[string]any {
	return map[string]any{
		"account_id":  a.ID.String(),
		"name":        a.Name,
		"invite_code": a.InviteCode,
		"created_by":  a.CreatedBy.String(),
		"created_at":  Time(a.CreatedAt),
		"role":        string(role),
	}
}

func DecodeAccount(s *structpb.Struct) (model.Account, model.Role, error) {
	id, err := UUID(s, "account_id")
	if err != nil {
		return model.Account{}, "", err
	}
	createdBy, _ := uuid.Parse(String(s, "created_by"))
	return model.Account{
		ID:         id,
		Name:       String(s, "name"),
		InviteCode: String(s, "invite_code"),
		CreatedBy:  createdBy,
		CreatedAt:  parseTime(String(s, "created_at")),
	}, model.Role(String(s, "role")), nil
}
