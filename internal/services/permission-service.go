package services

// Tier is a privilege level derived from configured role-sets, ascending.
type Tier int

const (
	TierMember Tier = iota + 1
	TierContract
	TierDeveloper
	TierDepOwner
	TierOwner
)

// roleSet names one configured group of role ids. Contract is a single role
// orthogonal to the moderator set; both resolve to the same numeric tier.
type roleSet string

const (
	setOwner     roleSet = "owner"
	setDepOwner  roleSet = "dep_owner"
	setDeveloper roleSet = "developer"
	setContract  roleSet = "contract"
	setModerator roleSet = "moderator"
)

type Capability string

const (
	CapReviewApplications Capability = "review_applications"
	CapManageContracts    Capability = "manage_contracts"
	CapUseConfig          Capability = "use_config"
	CapAllCommands        Capability = "all_commands"
)

// capabilityTable maps a capability to the role-sets that satisfy it. New
// capabilities are rows here, not new code paths.
var capabilityTable = map[Capability][]roleSet{
	CapReviewApplications: {setOwner, setDepOwner, setDeveloper, setModerator},
	CapManageContracts:    {setOwner, setDepOwner, setDeveloper, setContract},
	CapUseConfig:          {setOwner, setDeveloper},
	CapAllCommands:        {setOwner, setDeveloper},
}

type PermissionService interface {
	TierOf(roleIDs []string) Tier
	TierName(roleIDs []string) string
	HasCapability(roleIDs []string, cap Capability) bool
}

type permissionService struct {
	settings SettingsService
}

func NewPermissionService(settings SettingsService) PermissionService {
	return &permissionService{settings: settings}
}

// inSet checks membership against the configured role-set. An unset role-set
// matches nobody, which soft-disables the tier rather than erroring.
func (p *permissionService) inSet(roleIDs []string, set roleSet) bool {
	var configured []string
	switch set {
	case setOwner:
		configured = p.settings.RoleIDs("owner_role_ids")
	case setDepOwner:
		configured = p.settings.RoleIDs("dep_owner_role_ids")
	case setDeveloper:
		configured = p.settings.RoleIDs("dev_role_ids")
	case setModerator:
		configured = p.settings.RoleIDs("moderator_role_ids")
	case setContract:
		if id := p.settings.RoleID("contract_role_id"); id != "" {
			configured = []string{id}
		}
	}

	for _, want := range configured {
		for _, have := range roleIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}

func (p *permissionService) TierOf(roleIDs []string) Tier {
	switch {
	case p.inSet(roleIDs, setOwner):
		return TierOwner
	case p.inSet(roleIDs, setDepOwner):
		return TierDepOwner
	case p.inSet(roleIDs, setDeveloper):
		return TierDeveloper
	case p.inSet(roleIDs, setContract), p.inSet(roleIDs, setModerator):
		return TierContract
	default:
		return TierMember
	}
}

func (p *permissionService) TierName(roleIDs []string) string {
	switch {
	case p.inSet(roleIDs, setOwner):
		return "Owner"
	case p.inSet(roleIDs, setDepOwner):
		return "Dep.Owner"
	case p.inSet(roleIDs, setDeveloper):
		return "Developer"
	case p.inSet(roleIDs, setContract):
		return "Contract"
	case p.inSet(roleIDs, setModerator):
		return "REC"
	default:
		return "Member"
	}
}

func (p *permissionService) HasCapability(roleIDs []string, cap Capability) bool {
	for _, set := range capabilityTable[cap] {
		if p.inSet(roleIDs, set) {
			return true
		}
	}
	return false
}
