package model

// Action is a guarded operation key checked against the permission table.
type Action string

const (
	ActionManagePatients      Action = "MANAGE_PATIENTS"
	ActionManageServices      Action = "MANAGE_SERVICES"
	ActionManageStaff         Action = "MANAGE_STAFF"
	ActionManageAppointments  Action = "MANAGE_APPOINTMENTS"
	ActionCreatePrescriptions Action = "CREATE_PRESCRIPTIONS"
	ActionViewMedicalRecords  Action = "VIEW_MEDICAL_RECORDS"
	ActionManageInvoices      Action = "MANAGE_INVOICES"
	ActionManageOwnSchedule   Action = "MANAGE_OWN_SCHEDULE"
)

// Permissions is the static table mapping each action to the roles allowed
// to perform it. It is pure data and must never depend on request context
// beyond the role.
var Permissions = map[Action][]Role{
	ActionManagePatients:      {RoleAdmin, RoleReceptionist},
	ActionManageServices:      {RoleAdmin},
	ActionManageStaff:         {RoleAdmin},
	ActionManageAppointments:  {RoleAdmin, RoleDoctor, RoleReceptionist},
	ActionCreatePrescriptions: {RoleAdmin, RoleDoctor},
	ActionViewMedicalRecords:  {RoleAdmin, RoleDoctor},
	ActionManageInvoices:      {RoleAdmin, RoleReceptionist},
	ActionManageOwnSchedule:   {RoleAdmin, RoleDoctor},
}

// Can reports whether the role may perform the action.
func (r Role) Can(action Action) bool {
	for _, allowed := range Permissions[action] {
		if r == allowed {
			return true
		}
	}
	return false
}
