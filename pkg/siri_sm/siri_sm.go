package siri_sm

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/nextride/nextride/pkg/transit"
	"github.com/rs/zerolog/log"
)

const XSDDateTimeFormat = "2006-01-02T15:04:05Z07:00"

type SiriSM struct {
	ServiceDelivery struct {
		ResponseTimestamp string
		ProducerRef       string

		StopMonitoringDelivery []struct {
			ResponseTimestamp string
			Status            string

			ErrorCondition struct {
				Description string
			}

			MonitoredStopVisit []*MonitoredStopVisit
		}
	}
}

type MonitoredStopVisit struct {
	RecordedAtTime string
	ItemIdentifier string
	MonitoringRef  string

	MonitoredVehicleJourney *MonitoredVehicleJourney
}

type MonitoredVehicleJourney struct {
	LineRef           string
	DirectionRef      string
	PublishedLineName string
	OperatorRef       string

	DestinationRef  string
	DestinationName string

	VehicleRef string

	FramedVehicleJourneyRef struct {
		DataFrameRef           string
		DatedVehicleJourneyRef string
	}

	MonitoredCall struct {
		ExpectedArrivalTime string
		AimedArrivalTime    string
		ArrivalStatus       string
	}
}

func ParseXML(reader io.Reader) (*SiriSM, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	siri := SiriSM{}
	if err := xml.Unmarshal(body, &siri); err != nil {
		return nil, err
	}

	return &siri, nil
}

// Predictions flattens the stop monitoring deliveries into LivePredictions.
// Visits with an unparseable expected arrival are dropped, delivery-level
// errors are logged and skipped - partial data still counts.
func (s *SiriSM) Predictions() []transit.LivePrediction {
	var predictions []transit.LivePrediction

	for _, delivery := range s.ServiceDelivery.StopMonitoringDelivery {
		if delivery.Status != "" && delivery.Status != "true" {
			log.Warn().Str("description", delivery.ErrorCondition.Description).Msg("Stop monitoring delivery reported an error")
			continue
		}

		for _, visit := range delivery.MonitoredStopVisit {
			if visit.MonitoredVehicleJourney == nil {
				continue
			}
			journey := visit.MonitoredVehicleJourney

			expectedArrival, err := time.Parse(XSDDateTimeFormat, journey.MonitoredCall.ExpectedArrivalTime)
			if err != nil {
				log.Debug().Str("line", journey.PublishedLineName).Msg("Visit has no usable expected arrival time")
				continue
			}

			recordedAt, _ := time.Parse(XSDDateTimeFormat, visit.RecordedAtTime)

			destination := journey.DestinationName
			if destination == "" {
				destination = journey.DestinationRef
			}

			predictions = append(predictions, transit.LivePrediction{
				OperatorRef:     journey.OperatorRef,
				LineName:        journey.PublishedLineName,
				DirectionRef:    journey.DirectionRef,
				DestinationName: destination,
				ExpectedArrival: expectedArrival,
				RecordedAt:      recordedAt,
				VehicleRef:      journey.VehicleRef,
			})
		}
	}

	return predictions
}
