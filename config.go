package docsync

import "github.com/goliatone/go-docsync/internal/runtimeconfig"

var (
	ErrRemoteContentsURLInvalid   = runtimeconfig.ErrRemoteContentsURLInvalid
	ErrRemoteTreesURLInvalid      = runtimeconfig.ErrRemoteTreesURLInvalid
	ErrRemoteRawURLInvalid        = runtimeconfig.ErrRemoteRawURLInvalid
	ErrMirrorDirRequired          = runtimeconfig.ErrMirrorDirRequired
	ErrManifestFileRequired       = runtimeconfig.ErrManifestFileRequired
	ErrWatchedDirectoriesRequired = runtimeconfig.ErrWatchedDirectoriesRequired
	ErrMethodsDirNotWatched       = runtimeconfig.ErrMethodsDirNotWatched
	ErrParametersDirNotWatched    = runtimeconfig.ErrParametersDirNotWatched
	ErrExtensionsRequired         = runtimeconfig.ErrExtensionsRequired
	ErrConcurrencyInvalid         = runtimeconfig.ErrConcurrencyInvalid
	ErrDocsBaseURLInvalid         = runtimeconfig.ErrDocsBaseURLInvalid
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	RemoteConfig  = runtimeconfig.RemoteConfig
	MirrorConfig  = runtimeconfig.MirrorConfig
	DocsConfig    = runtimeconfig.DocsConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	MetricsConfig = runtimeconfig.MetricsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
