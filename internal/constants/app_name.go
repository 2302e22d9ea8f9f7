package constants

const (
	AppJourneyService = "journey-service"
	AppJourneyInspect = "journey-inspect"
	AppMain           = "main journey"
)
