package configs

import "testing"

// useTempSettings points the settings at fresh temp directories for one test.
func useTempSettings(t *testing.T) *UserSettings {
	t.Helper()
	old := UserKeystashSettings
	home := t.TempDir()
	UserKeystashSettings = &UserSettings{
		UserConfigsPath:    t.TempDir(),
		DefaultStorageRoot: home + "/" + DefaultRootName,
		HomeDir:            home,
	}
	t.Cleanup(func() {
		UserKeystashSettings = old
	})
	return UserKeystashSettings
}
