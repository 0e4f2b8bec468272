package types

import "time"

// RuleSetType names a downloadable rule set.
type RuleSetType string

const (
	RuleSetSnortSuricataMaster    RuleSetType = "snort-suricata-master"
	RuleSetSnortSuricataUpdate    RuleSetType = "snort-suricata-update"
	RuleSetSnortSuricataChangelog RuleSetType = "snort-suricata-changelog"
	RuleSetYaraMaster             RuleSetType = "yara-master"
	RuleSetYaraUpdate             RuleSetType = "yara-update"
	RuleSetYaraChangelog          RuleSetType = "yara-changelog"
	RuleSetCommonEventFormat      RuleSetType = "common-event-format"
	RuleSetNetWitness             RuleSetType = "netwitness"
)

// RuleFileRequest asks for the latest file of a rule set. ETag and
// LastModified, when set, make the request conditional.
type RuleFileRequest struct {
	Type         RuleSetType
	ETag         string
	LastModified *time.Time
}
