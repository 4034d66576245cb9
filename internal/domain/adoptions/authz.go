package adoptions

import (
	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/ports/auth"
)

// Operation identifica una acción sobre solicitudes para la tabla de permisos.
type Operation string

const (
	OpSubmit        Operation = "submit"
	OpView          Operation = "view"
	OpListByPet     Operation = "list_by_pet"
	OpUpdateInfo    Operation = "update_applicant_info"
	OpReview        Operation = "review" // avance, on-hold, rechazo, devolución
	OpWithdraw      Operation = "withdraw"
	OpScheduleVisit Operation = "schedule_visit"
	OpCompleteVisit Operation = "complete_visit"
	OpAddFee        Operation = "add_fee"
	OpRecordPayment Operation = "record_payment"
	OpReconcile     Operation = "reconcile"
)

type rule struct {
	roles     []auth.Role
	applicant bool
	// applicantIn restringe al solicitante a esos estados; vacío = cualquiera.
	applicantIn []Status
}

// permissions es la tabla completa. admin no figura: pasa siempre.
var permissions = map[Operation]rule{
	OpSubmit:        {roles: []auth.Role{auth.RoleUser}},
	OpView:          {roles: []auth.Role{auth.RoleShelter}, applicant: true},
	OpListByPet:     {roles: []auth.Role{auth.RoleShelter}},
	OpUpdateInfo:    {applicant: true, applicantIn: []Status{StatusSubmitted}},
	OpReview:        {roles: []auth.Role{auth.RoleShelter}},
	OpWithdraw:      {applicant: true, applicantIn: []Status{StatusSubmitted}},
	OpScheduleVisit: {roles: []auth.Role{auth.RoleShelter}},
	OpCompleteVisit: {roles: []auth.Role{auth.RoleShelter}},
	OpAddFee:        {roles: []auth.Role{auth.RoleShelter}},
	OpRecordPayment: {roles: []auth.Role{auth.RoleShelter}, applicant: true},
	OpReconcile:     {roles: []auth.Role{auth.RoleShelter}},
}

// Authorize aplica la tabla. app puede ser nil para operaciones sin solicitud
// (submit, listado por mascota). shelterOwner es el usuario dueño del refugio
// de la solicitud o mascota: el rol shelter solo actúa sobre su propio refugio.
func Authorize(op Operation, actor auth.Actor, app *Application, shelterOwner string) error {
	if actor.ID == "" {
		return apperr.Forbidden("missing actor")
	}
	if actor.IsAdmin() {
		return nil
	}
	r, ok := permissions[op]
	if !ok {
		return apperr.Forbidden("operation %s is not allowed", op)
	}
	for _, role := range r.roles {
		if actor.Role != role {
			continue
		}
		if role == auth.RoleShelter && shelterOwner != actor.ID {
			return apperr.Forbidden("%s does not manage this shelter", actor.ID)
		}
		return nil
	}
	if r.applicant && app != nil && app.ApplicantID == actor.ID {
		if len(r.applicantIn) == 0 {
			return nil
		}
		for _, s := range r.applicantIn {
			if app.Status == s {
				return nil
			}
		}
		return apperr.Forbidden("applicant cannot %s while status is %s", op, app.Status)
	}
	return apperr.Forbidden("role %s cannot %s", actor.Role, op)
}

// operationFor decide qué permiso exige una transición manual.
func operationFor(to Status) Operation {
	if to == StatusWithdrawn {
		return OpWithdraw
	}
	return OpReview
}
