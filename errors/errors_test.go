package errors

import (
	// Go Internal Packages
	"fmt"
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "at least provide one client", NoClientsErr().Error())
	assert.Equal(t, "cannot validate clients: something wrong", ClientsNotValidErr(New("something wrong")).Error())
	assert.Equal(t, "cannot find authority in db: authority not exists", FindAuthorityErr(ErrAuthorityNotFound).Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, UnknownAuthority, KindOf(FindAuthorityErr(ErrAuthorityNotFound)))
	assert.Equal(t, PersistenceError, KindOf(FindAuthorityErr(New("connection reset"))))
	assert.Equal(t, GatewayError, KindOf(fmt.Errorf("wrapped: %w", RequestPaymentErr(New("x")))))
	assert.Equal(t, Other, KindOf(New("plain")))
	assert.Equal(t, Other, KindOf(nil))
}

func TestIsCritical(t *testing.T) {
	assert.True(t, IsCritical(RecordTransactionErr(New("down"))))
	assert.True(t, IsCritical(ApplyPaymentErr(&ApplyError{Name: "a", Position: 1})))
	assert.True(t, IsCritical(E(Other, "outer", RecordTransactionErr(New("down")))))
	assert.False(t, IsCritical(VerifyPaymentErr(New("bad"))))
	assert.False(t, IsCritical(nil))
}

func TestApplyErrorDetail(t *testing.T) {
	err := &ApplyError{
		Name:         "b",
		Position:     2,
		Applied:      []string{"a"},
		NotAttempted: []string{"c", "d"},
		Err:          New("exit status 1"),
	}
	assert.True(t, err.Partial())
	assert.Equal(t, "runner failed on name 'b' (position 2), applied [a], not attempted [c,d]: exit status 1", err.Error())

	first := &ApplyError{Name: "a", Position: 1, NotAttempted: []string{"b"}}
	assert.False(t, first.Partial())
	assert.Equal(t, "CRITICAL: runner failed on name 'a' (position 1), nothing applied, not attempted [b]", ApplyPaymentErr(first).Error())
	assert.Equal(t, "runner failed on name 'a' (position 1), nothing applied, not attempted [b]", first.Error())
}

func TestValidationErrs(t *testing.T) {
	ve := ValidationErrs()
	assert.NoError(t, ve.Err())

	ve.Add("b", "cannot be empty")
	ve.Add("a", "too short")
	ve.Add("a", "invalid")
	assert.Equal(t, "a: too short, invalid; b: cannot be empty", ve.Err().Error())
}
