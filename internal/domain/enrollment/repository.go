package enrollment

import "context"

type Repository interface {
	Create(ctx context.Context, approved ApprovedApplicant, programme ApprovedApplicantProgramme) (*ApprovedApplicant, error)
}
