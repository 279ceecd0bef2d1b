package bootstrap

// Stage is a step of the bootstrap. Stages only move forward.
type Stage int

const (
	StageStart Stage = iota
	StagePlatformDetected
	StageConfigResolved
	StageDNSConfigured
	StageMasterConfigured
	StageArtifactFetched
	StageArtifactVerified
	StageArgsTranslated
	StageProcessExecuted
	StageDone
)

var stageNames = [...]string{
	StageStart:            "Start",
	StagePlatformDetected: "PlatformDetect",
	StageConfigResolved:   "ConfigResolved",
	StageDNSConfigured:    "DNSConfigured",
	StageMasterConfigured: "MasterPrereqsConfigured",
	StageArtifactFetched:  "ArtifactFetched",
	StageArtifactVerified: "ArtifactVerified",
	StageArgsTranslated:   "ArgsTranslated",
	StageProcessExecuted:  "ProcessExecuted",
	StageDone:             "Done",
}

// String returns the stage name.
func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "Unknown"
}
