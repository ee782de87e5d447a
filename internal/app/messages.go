package app

import "fmt"

const (
	subjectStageUpdate = "Your application has progressed"
	subjectRejection   = "Update on your application"
	subjectInvite      = "You have been accepted"
)

func stageUpdateBody(firstName string) string {
	if firstName == "" {
		return "Good news! Your application has moved to the next stage of review."
	}
	return fmt.Sprintf("Hi %s, good news! Your application has moved to the next stage of review.", firstName)
}

func bulkStageUpdateBody() string {
	return "Good news! Your application has moved to the next stage of review."
}

func rejectionBody(firstName, programmeTitle string) string {
	return fmt.Sprintf("Dear %s, thank you for applying to %s. After careful review we are unable to offer you a place at this time.", firstName, programmeTitle)
}

func inviteBody(firstName, programmeTitle, activationLink string) string {
	return fmt.Sprintf("Congratulations %s! You have been accepted into %s. Activate your account here: %s", firstName, programmeTitle, activationLink)
}
