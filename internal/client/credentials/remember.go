package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/cryptox"
)

// rememberKeys are the keys owned by the credential record. They are
// always removed together.
var rememberKeys = []string{
	common.TokenKey,
	common.RememberMeKey,
	common.LoginInfoKey,
	common.UserInfoKey,
}

// Record is what a successful login persists when the operator asked to be
// remembered.
type Record struct {
	Token     string
	LoginInfo models.LoginInfo
	User      *models.User
}

// SetRemember persists rec with the given expiry when rememberMe is set and
// clears every credential key otherwise. All keys share one expiry so they
// lapse together.
func SetRemember(ctx context.Context, s Store, rememberMe bool, rec Record, expiresInDays float64) error {
	if !rememberMe {
		return Clear(ctx, s)
	}

	info := rec.LoginInfo
	info.IsFromCookie = true
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode login info: %w", err)
	}

	var userJSON []byte
	if rec.User != nil {
		if userJSON, err = json.Marshal(rec.User); err != nil {
			return fmt.Errorf("failed to encode user info: %w", err)
		}
	}

	opts := SetOptions{ExpiresInDays: expiresInDays, Path: DefaultPath}
	return batch(ctx, s, func(ctx context.Context, tx Store) error {
		if rec.Token != "" {
			if err := tx.Set(ctx, common.TokenKey, rec.Token, opts); err != nil {
				return err
			}
		}
		if err := tx.Set(ctx, common.RememberMeKey, "true", opts); err != nil {
			return err
		}
		if err := tx.Set(ctx, common.LoginInfoKey, string(infoJSON), opts); err != nil {
			return err
		}
		if userJSON != nil {
			return tx.Set(ctx, common.UserInfoKey, string(userJSON), opts)
		}
		return tx.Remove(ctx, common.UserInfoKey, RemoveOptions{Path: DefaultPath})
	})
}

// LoadRemembered returns the remembered login. A record where only one of
// rememberMe and Login-Info survived, or whose Login-Info can no longer be
// unsealed, is cleared and reported together with
// common.ErrInconsistentRecord so the caller can log it; ok is false then.
func LoadRemembered(ctx context.Context, s Store) (*models.LoginInfo, bool, error) {
	flag, hasFlag, err := s.Get(ctx, common.RememberMeKey)
	if err != nil {
		return nil, false, err
	}
	raw, hasInfo, err := s.Get(ctx, common.LoginInfoKey)
	if errors.Is(err, cryptox.ErrSealedValue) {
		if cerr := Clear(ctx, s); cerr != nil {
			return nil, false, cerr
		}
		return nil, false, fmt.Errorf("%w: %w", common.ErrInconsistentRecord, err)
	}
	if err != nil {
		return nil, false, err
	}

	if !hasFlag && !hasInfo {
		return nil, false, nil
	}

	var info models.LoginInfo
	consistent := hasFlag && hasInfo && flag == "true" &&
		json.Unmarshal([]byte(raw), &info) == nil && info.UserName != ""
	if !consistent {
		if err := Clear(ctx, s); err != nil {
			return nil, false, err
		}
		return nil, false, common.ErrInconsistentRecord
	}

	return &info, true, nil
}

// Token returns the persisted session token.
func Token(ctx context.Context, s Store) (string, bool, error) {
	return s.Get(ctx, common.TokenKey)
}

// SaveToken persists the session token without touching the remember-me keys.
func SaveToken(ctx context.Context, s Store, token string, expiresInDays float64) error {
	return s.Set(ctx, common.TokenKey, token, SetOptions{ExpiresInDays: expiresInDays, Path: DefaultPath})
}

// SaveSession persists the token and user of a login that was not
// remembered. With expiresInDays 0 the values are session scoped when s is
// a ScopedStore.
func SaveSession(ctx context.Context, s Store, token string, user *models.User, expiresInDays float64) error {
	var userJSON []byte
	if user != nil {
		var err error
		if userJSON, err = json.Marshal(user); err != nil {
			return fmt.Errorf("failed to encode user info: %w", err)
		}
	}

	opts := SetOptions{ExpiresInDays: expiresInDays, Path: DefaultPath}
	return batch(ctx, s, func(ctx context.Context, tx Store) error {
		if err := SaveToken(ctx, tx, token, expiresInDays); err != nil {
			return err
		}
		if userJSON == nil {
			return tx.Remove(ctx, common.UserInfoKey, RemoveOptions{Path: DefaultPath})
		}
		return tx.Set(ctx, common.UserInfoKey, string(userJSON), opts)
	})
}

// CurrentUser returns the user persisted next to the token. Values that do
// not decode to a valid user are reported as absent.
func CurrentUser(ctx context.Context, s Store) (*models.User, bool, error) {
	raw, ok, err := s.Get(ctx, common.UserInfoKey)
	if err != nil || !ok {
		return nil, false, err
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || !u.Valid() {
		return nil, false, nil
	}
	return &u, true, nil
}

// Clear removes every credential key.
func Clear(ctx context.Context, s Store) error {
	return batch(ctx, s, func(ctx context.Context, tx Store) error {
		for _, k := range rememberKeys {
			if err := tx.Remove(ctx, k, RemoveOptions{Path: DefaultPath}); err != nil {
				return err
			}
		}
		return nil
	})
}
