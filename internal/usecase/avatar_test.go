package usecase

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/GoArmGo/InviteLink/internal/database/memory"
	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/GoArmGo/InviteLink/internal/logger"
	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAvatar(t *testing.T) {
	tooBig := "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, MaxAvatarBytes+1))

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "empty", in: ""},
		{name: "https url", in: "https://img.example.com/a.png"},
		{name: "http url", in: "http://img.example.com/a.png"},
		{name: "png data uri", in: pngDataURI},
		{name: "jpeg data uri", in: "data:image/jpeg;base64,/9j/4AAQ"},
		{name: "gif data uri", in: "data:image/gif;base64,R0lGODlhAQABAAAAACw="},
		{name: "relative path", in: "/img/a.png", wantErr: true},
		{name: "javascript", in: "javascript:alert(1)", wantErr: true},
		{name: "svg data uri", in: "data:image/svg+xml;base64,PHN2Zz4=", wantErr: true},
		{name: "not base64", in: "data:image/png,raw", wantErr: true},
		{name: "garbage data uri", in: "data:", wantErr: true},
		{name: "too big", in: tooBig, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAvatar(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrBadRequest)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOffload(t *testing.T) {
	store := memory.NewUserStorage()
	seed(t, store, AuthenticateInput{Username: "alice", Password: "pw", Avatar: pngDataURI})
	files := &fakeFileStorage{}
	uc := NewAvatarUseCase(store, files, logger.Discard())

	url, err := uc.Offload(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, files.uploads, 1)
	up := files.uploads[0]
	assert.Equal(t, "image/png", up.contentType)
	assert.True(t, strings.HasPrefix(up.key, "alice/"))
	assert.True(t, strings.HasSuffix(up.key, ".png"))
	assert.NotEmpty(t, up.data)

	stored, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, url, stored.ProfilePicture)

	// повторный вызов ничего не загружает
	again, err := uc.Offload(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, url, again)
	assert.Len(t, files.uploads, 1)
}

func TestOffload_UploadFailureKeepsDataURI(t *testing.T) {
	store := memory.NewUserStorage()
	seed(t, store, AuthenticateInput{Username: "alice", Password: "pw", Avatar: pngDataURI})
	uc := NewAvatarUseCase(store, &fakeFileStorage{err: errDBDown}, logger.Discard())

	_, err := uc.Offload(context.Background(), "alice")
	require.Error(t, err)

	stored, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, pngDataURI, stored.ProfilePicture)
}

func TestHandleUserRegistered(t *testing.T) {
	store := memory.NewUserStorage()
	seed(t, store,
		AuthenticateInput{Username: "alice", Password: "pw", Avatar: pngDataURI},
		AuthenticateInput{Username: "bob", Password: "pw"},
	)
	files := &fakeFileStorage{}
	uc := NewAvatarUseCase(store, files, logger.Discard())

	require.NoError(t, uc.HandleUserRegistered(context.Background(), payloads.UserRegisteredPayload{Username: "bob"}))
	assert.Empty(t, files.uploads)

	require.NoError(t, uc.HandleUserRegistered(context.Background(), payloads.UserRegisteredPayload{Username: "alice", HasAvatar: true}))
	assert.Len(t, files.uploads, 1)

	err := uc.HandleUserRegistered(context.Background(), payloads.UserRegisteredPayload{Username: "ghost", HasAvatar: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
