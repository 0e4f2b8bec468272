package types

// ------------------------------
// Core Domain Entities
// ------------------------------

// KillChain describes an actor's activity along the intrusion kill chain.
type KillChain struct {
	ActionsAndObjectives         string `json:"actions_and_objectives,omitempty"`
	CommandAndControl            string `json:"command_and_control,omitempty"`
	Delivery                     string `json:"delivery,omitempty"`
	Exploitation                 string `json:"exploitation,omitempty"`
	Installation                 string `json:"installation,omitempty"`
	Objectives                   string `json:"objectives,omitempty"`
	Reconnaissance               string `json:"reconnaissance,omitempty"`
	Weaponization                string `json:"weaponization,omitempty"`
	RichTextActionsAndObjectives string `json:"rich_text_actions_and_objectives,omitempty"`
	RichTextCommandAndControl    string `json:"rich_text_command_and_control,omitempty"`
	RichTextDelivery             string `json:"rich_text_delivery,omitempty"`
	RichTextExploitation         string `json:"rich_text_exploitation,omitempty"`
	RichTextInstallation         string `json:"rich_text_installation,omitempty"`
	RichTextObjectives           string `json:"rich_text_objectives,omitempty"`
	RichTextReconnaissance       string `json:"rich_text_reconnaissance,omitempty"`
	RichTextWeaponization        string `json:"rich_text_weaponization,omitempty"`
}

// ECrimeKillChain is the eCrime variant of the kill chain.
type ECrimeKillChain struct {
	Attribution                 string `json:"attribution,omitempty"`
	Crimes                      string `json:"crimes,omitempty"`
	Customers                   string `json:"customers,omitempty"`
	Marketing                   string `json:"marketing,omitempty"`
	Monetization                string `json:"monetization,omitempty"`
	ServicesOffered             string `json:"services_offered,omitempty"`
	ServicesUsed                string `json:"services_used,omitempty"`
	TechnicalTradecraft         string `json:"technical_tradecraft,omitempty"`
	Victims                     string `json:"victims,omitempty"`
	RichTextAttribution         string `json:"rich_text_attribution,omitempty"`
	RichTextCrimes              string `json:"rich_text_crimes,omitempty"`
	RichTextCustomers           string `json:"rich_text_customers,omitempty"`
	RichTextMarketing           string `json:"rich_text_marketing,omitempty"`
	RichTextMonetization        string `json:"rich_text_monetization,omitempty"`
	RichTextServicesOffered     string `json:"rich_text_services_offered,omitempty"`
	RichTextServicesUsed        string `json:"rich_text_services_used,omitempty"`
	RichTextTechnicalTradecraft string `json:"rich_text_technical_tradecraft,omitempty"`
	RichTextVictims             string `json:"rich_text_victims,omitempty"`
}

// Actor represents a tracked adversary.
type Actor struct {
	ID               int64            `json:"id"`
	Active           bool             `json:"active"`
	KnownAs          string           `json:"known_as"`
	Name             string           `json:"name"`
	NotifyUsers      bool             `json:"notify_users"`
	ShortDescription string           `json:"short_description"`
	Slug             string           `json:"slug"`
	CreatedDate      *Timestamp       `json:"created_date,omitempty"`
	LastModified     *Timestamp       `json:"last_modified_date,omitempty"`
	FirstActivity    *Timestamp       `json:"first_activity_date,omitempty"`
	LastActivity     *Timestamp       `json:"last_activity_date,omitempty"`
	Motivations      []Entity         `json:"motivations,omitempty"`
	Origins          []Entity         `json:"origins,omitempty"`
	TargetCountries  []Entity         `json:"target_countries,omitempty"`
	TargetIndustries []Entity         `json:"target_industries,omitempty"`
	ActorType        string           `json:"actor_type,omitempty"`
	Description      string           `json:"description,omitempty"`
	ECrimeKillChain  *ECrimeKillChain `json:"ecrime_kill_chain,omitempty"`
	Entitlements     []Entity         `json:"entitlements,omitempty"`
	Group            *Entity          `json:"group,omitempty"`
	Image            *Image           `json:"image,omitempty"`
	KillChain        *KillChain       `json:"kill_chain,omitempty"`
	Region           *Entity          `json:"region,omitempty"`
	RichDescription  string           `json:"rich_text_description,omitempty"`
	Thumbnail        *Image           `json:"thumbnail,omitempty"`
	URL              string           `json:"url,omitempty"`
}

// Label is a classification attached to an indicator.
type Label struct {
	Name        string    `json:"name"`
	CreatedOn   Timestamp `json:"created_on"`
	LastValidOn Timestamp `json:"last_valid_on"`
}

// Relation links an indicator to another indicator.
type Relation struct {
	ID            string    `json:"id,omitempty"`
	Indicator     string    `json:"indicator"`
	Type          string    `json:"type"`
	CreatedDate   Timestamp `json:"created_date"`
	LastValidDate Timestamp `json:"last_valid_date"`
}

// Indicator is an indicator of compromise.
type Indicator struct {
	Marker              string     `json:"_marker"`
	ID                  string     `json:"id"`
	Type                string     `json:"type"`
	Indicator           string     `json:"indicator"`
	Deleted             bool       `json:"deleted"`
	Actors              []string   `json:"actors"`
	DomainTypes         []string   `json:"domain_types"`
	IPAddressTypes      []string   `json:"ip_address_types"`
	KillChains          []string   `json:"kill_chains"`
	Labels              []Label    `json:"labels"`
	LastUpdated         Timestamp  `json:"last_updated"`
	MaliciousConfidence string     `json:"malicious_confidence"`
	MalwareFamilies     []string   `json:"malware_families"`
	PublishedDate       Timestamp  `json:"published_date"`
	Relations           []Relation `json:"relations"`
	Reports             []string   `json:"reports"`
	Targets             []string   `json:"targets"`
	ThreatTypes         []string   `json:"threat_types"`
	Vulnerabilities     []string   `json:"vulnerabilities"`
}

// ReportActor is the abbreviated actor embedded in reports.
type ReportActor struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Thumbnail *Image `json:"thumbnail,omitempty"`
	URL       string `json:"url,omitempty"`
}

// File is a report attachment.
type File struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// Report is an intelligence report.
type Report struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Actors           []ReportActor `json:"actors"`
	Tags             []Entity      `json:"tags"`
	TargetCountries  []Entity      `json:"target_countries"`
	TargetIndustries []Entity      `json:"target_industries"`
	Motivations      []Entity      `json:"motivations"`
	CreatedDate      *Timestamp    `json:"created_date,omitempty"`
	LastModified     *Timestamp    `json:"last_modified_date,omitempty"`
	Active           *bool         `json:"active,omitempty"`
	Attachments      []File        `json:"attachments,omitempty"`
	Description      string        `json:"description,omitempty"`
	Entitlements     []Entity      `json:"entitlements,omitempty"`
	Image            *Image        `json:"image,omitempty"`
	Thumbnail        *Image        `json:"thumbnail,omitempty"`
	NotifyUsers      *bool         `json:"notify_users,omitempty"`
	RichDescription  string        `json:"rich_text_description,omitempty"`
	ShortDescription string        `json:"short_description,omitempty"`
	Topic            *Entity       `json:"topic,omitempty"`
	Type             *Entity       `json:"type,omitempty"`
	SubType          *Entity       `json:"sub_type,omitempty"`
	URL              string        `json:"url,omitempty"`
}
