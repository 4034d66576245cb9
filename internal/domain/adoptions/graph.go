package adoptions

// forward es la cadena principal del pipeline. Los estados *-scheduled son
// marcadores opcionales, pero el meet-and-greet y la visita al hogar no:
// adoption-approved solo se alcanza desde home-visit-completed.
var forward = map[Status][]Status{
	StatusSubmitted:          {StatusUnderReview},
	StatusUnderReview:        {StatusApproved},
	StatusApproved:           {StatusMeetScheduled, StatusMeetCompleted},
	StatusMeetScheduled:      {StatusMeetCompleted},
	StatusMeetCompleted:      {StatusHomeVisitScheduled, StatusHomeVisitCompleted},
	StatusHomeVisitScheduled: {StatusHomeVisitCompleted},
	StatusHomeVisitCompleted: {StatusAdoptionApproved},
	StatusAdoptionApproved:   {StatusAdoptionCompleted},
	StatusAdoptionCompleted:  {StatusAdoptionReturned},
}

// terminal: sin salida, salvo adoption-completed -> adoption-returned.
var terminal = map[Status]bool{
	StatusRejected:          true,
	StatusWithdrawn:         true,
	StatusAdoptionCompleted: true,
	StatusAdoptionReturned:  true,
}

var allStatuses = []Status{
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusOnHold,
	StatusMeetScheduled,
	StatusMeetCompleted,
	StatusHomeVisitScheduled,
	StatusHomeVisitCompleted,
	StatusAdoptionApproved,
	StatusAdoptionCompleted,
	StatusAdoptionReturned,
	StatusWithdrawn,
}

var transitions = buildTransitions()

func buildTransitions() map[Status]map[Status]bool {
	out := make(map[Status]map[Status]bool, len(allStatuses))
	for _, s := range allStatuses {
		out[s] = map[Status]bool{}
		for _, to := range forward[s] {
			out[s][to] = true
		}
		if terminal[s] {
			continue
		}
		out[s][StatusRejected] = true
		out[s][StatusWithdrawn] = true
		if s != StatusOnHold {
			out[s][StatusOnHold] = true
		}
	}
	return out
}

// CanTransition valida un salto contra el grafo. Desde on-hold solo se vuelve
// al estado previo (heldFrom) o a una rama terminal.
func CanTransition(from, to, heldFrom Status) bool {
	if from == StatusOnHold && heldFrom != "" && to == heldFrom {
		return true
	}
	return transitions[from][to]
}

// NextStatuses lista los destinos válidos desde from, en orden estable.
func NextStatuses(from, heldFrom Status) []Status {
	out := make([]Status, 0, 4)
	for _, s := range allStatuses {
		if CanTransition(from, s, heldFrom) {
			out = append(out, s)
		}
	}
	return out
}

// IsActive: cuenta para el chequeo de duplicados (on-hold incluido).
func IsActive(s Status) bool {
	return !terminal[s]
}

func IsTerminal(s Status) bool {
	return terminal[s]
}

func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}
