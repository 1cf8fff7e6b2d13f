package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWebConfig() Config {
	return Config{
		Platform:     PlatformWeb,
		WebClientID:  "web-client-id",
		ClientSecret: "web-secret",
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := validWebConfig().withDefaults()

	assert.Equal(t, []string{"openid", "profile", "email"}, cfg.Scopes)
	assert.Equal(t, "https://accounts.google.com", cfg.Issuer)
	assert.Equal(t, "https://oauth2.googleapis.com/revoke", cfg.RevokeURL)
	assert.NotEmpty(t, cfg.RedirectURL)
}

func TestConfig_NoRevokeDefaultForCustomIssuer(t *testing.T) {
	cfg := Config{Platform: PlatformIOS, IOSClientID: "ios-id", Issuer: "https://idp.example.com"}
	assert.Empty(t, cfg.withDefaults().RevokeURL)
}

func TestConfig_ClientIDSelection(t *testing.T) {
	cfg := Config{
		WebClientID:     "web-id",
		IOSClientID:     "ios-id",
		AndroidClientID: "android-id",
	}

	tests := []struct {
		platform Platform
		want     string
	}{
		{PlatformWeb, "web-id"},
		{PlatformIOS, "ios-id"},
		{PlatformAndroid, "android-id"},
	}

	for _, tt := range tests {
		cfg.Platform = tt.platform
		id, err := cfg.clientID()
		require.NoError(t, err, string(tt.platform))
		assert.Equal(t, tt.want, id)
	}
}

func TestConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "unknown platform",
			cfg:  Config{Platform: "blackberry", WebClientID: "id"},
		},
		{
			// Having only the web id configured must not silently degrade
			// an ios build; it is a configuration error.
			name: "platform mismatch",
			cfg:  Config{Platform: PlatformIOS, WebClientID: "web-id"},
		},
		{
			name: "web without secret",
			cfg:  Config{Platform: PlatformWeb, WebClientID: "web-id"},
		},
		{
			name: "token endpoint without authorize endpoint",
			cfg: Config{
				Platform:    PlatformIOS,
				IOSClientID: "ios-id",
				TokenURL:    "https://idp.example.com/token",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.withDefaults().Validate()
			require.Error(t, err)
			assert.True(t, IsCode(err, ErrCodeConfigInvalid), err.Error())
		})
	}
}

func TestConfig_ValidNonWebPlatformsNeedNoSecret(t *testing.T) {
	cfg := Config{Platform: PlatformAndroid, AndroidClientID: "android-id"}
	assert.NoError(t, cfg.withDefaults().Validate())
}
