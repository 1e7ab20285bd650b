package app

import "sync"

// resetSettingsStateForTest clears the sync.Once singleton so each test sees
// a fresh settings load.
func resetSettingsStateForTest() {
	settingsOnce = sync.Once{}
	settings = Settings{}
	settingsErr = nil
	SetDBPathOverride("")
}
