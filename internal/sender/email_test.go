package sender

import (
	"errors"
	"testing"
)

func TestPermanentSMTPFailure(t *testing.T) {
	cases := []struct {
		err      string
		wantCode string
		wantOK   bool
	}{
		{"550 5.1.1 user unknown", "550", true},
		{"gomail: could not send email 1: 550-mailbox disabled", "550", true},
		{"554 transaction failed", "554", true},
		{"451 4.7.1 try again later", "", false},
		{"dial tcp: connection refused", "", false},
	}
	for _, tc := range cases {
		code, ok := permanentSMTPFailure(errors.New(tc.err))
		if ok != tc.wantOK || code != tc.wantCode {
			t.Errorf("permanentSMTPFailure(%q) = %q %v, want %q %v", tc.err, code, ok, tc.wantCode, tc.wantOK)
		}
	}
}

func TestIsPermanentBlockUnwraps(t *testing.T) {
	base := &PermanentBlockError{Code: "21610", Message: "opted out"}
	wrapped := errors.Join(errors.New("send failed"), base)
	if !IsPermanentBlock(wrapped) {
		t.Error("wrapped block error should be recognized")
	}
	if IsPermanentBlock(errors.New("timeout")) {
		t.Error("ordinary error misread as block")
	}
}

func TestIsPermanentBlockCode(t *testing.T) {
	for _, code := range []string{"21610", "30004", "30006", "550"} {
		if !IsPermanentBlockCode(code) {
			t.Errorf("code %s should be permanent", code)
		}
	}
	if IsPermanentBlockCode("30001") {
		t.Error("30001 is a retryable code")
	}
}
