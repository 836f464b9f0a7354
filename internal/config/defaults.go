package config

const (
	defaultDataDir        = "~/.local/share/revoice/data"
	defaultLogDir         = "~/.local/share/revoice/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultTTSCommand     = "revoice-synth"
	defaultTTSSampleRate  = 24000
	defaultTTSCandidates  = 1
	defaultTTSTimeout     = 600
	defaultASRCommand     = "whisper"
	defaultASRModel       = "medium"
	defaultASRSampleRate  = 16000
	defaultASRTimeout     = 300
	defaultScoreThreshold = 0.9
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultLeadInSeconds  = 0.5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TTS: TTS{
			Command:           defaultTTSCommand,
			SampleRate:        defaultTTSSampleRate,
			Candidates:        defaultTTSCandidates,
			DeterministicSeed: true,
			TimeoutSeconds:    defaultTTSTimeout,
		},
		ASR: ASR{
			Command:        defaultASRCommand,
			Model:          defaultASRModel,
			SampleRate:     defaultASRSampleRate,
			TimeoutSeconds: defaultASRTimeout,
		},
		Review: Review{
			ScoreThreshold: defaultScoreThreshold,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			LeadInSeconds: defaultLeadInSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
