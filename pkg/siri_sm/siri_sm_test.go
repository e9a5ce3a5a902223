package siri_sm

import (
	"strings"
	"testing"
	"time"
)

const sampleResponse = `<?xml version="1.0" encoding="UTF-8"?>
<Siri xmlns="http://www.siri.org.uk/siri" version="2.8">
  <ServiceDelivery>
    <ResponseTimestamp>2024-03-12T14:00:05+02:00</ResponseTimestamp>
    <ProducerRef>Moran</ProducerRef>
    <StopMonitoringDelivery version="2.8">
      <ResponseTimestamp>2024-03-12T14:00:05+02:00</ResponseTimestamp>
      <Status>true</Status>
      <MonitoredStopVisit>
        <RecordedAtTime>2024-03-12T13:59:58+02:00</RecordedAtTime>
        <ItemIdentifier>101</ItemIdentifier>
        <MonitoringRef>36601</MonitoringRef>
        <MonitoredVehicleJourney>
          <LineRef>2557</LineRef>
          <DirectionRef>1</DirectionRef>
          <PublishedLineName>18</PublishedLineName>
          <OperatorRef>5</OperatorRef>
          <DestinationRef>40230</DestinationRef>
          <MonitoredCall>
            <ExpectedArrivalTime>2024-03-12T14:07:00+02:00</ExpectedArrivalTime>
            <ArrivalStatus>onTime</ArrivalStatus>
          </MonitoredCall>
          <VehicleRef>7785469</VehicleRef>
        </MonitoredVehicleJourney>
      </MonitoredStopVisit>
      <MonitoredStopVisit>
        <RecordedAtTime>2024-03-12T13:59:58+02:00</RecordedAtTime>
        <ItemIdentifier>102</ItemIdentifier>
        <MonitoringRef>36601</MonitoringRef>
        <MonitoredVehicleJourney>
          <LineRef>9931</LineRef>
          <DirectionRef>2</DirectionRef>
          <PublishedLineName>60</PublishedLineName>
          <OperatorRef>15</OperatorRef>
          <DestinationRef>50112</DestinationRef>
          <MonitoredCall>
            <ArrivalStatus>noReport</ArrivalStatus>
          </MonitoredCall>
        </MonitoredVehicleJourney>
      </MonitoredStopVisit>
    </StopMonitoringDelivery>
  </ServiceDelivery>
</Siri>`

const erroredResponse = `<?xml version="1.0" encoding="UTF-8"?>
<Siri xmlns="http://www.siri.org.uk/siri" version="2.8">
  <ServiceDelivery>
    <ResponseTimestamp>2024-03-12T14:00:05+02:00</ResponseTimestamp>
    <StopMonitoringDelivery version="2.8">
      <Status>false</Status>
      <ErrorCondition>
        <Description>Unknown MonitoringRef</Description>
      </ErrorCondition>
    </StopMonitoringDelivery>
  </ServiceDelivery>
</Siri>`

func TestParseXMLPredictions(t *testing.T) {
	siri, err := ParseXML(strings.NewReader(sampleResponse))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if siri.ServiceDelivery.ProducerRef != "Moran" {
		t.Errorf("unexpected producer ref %q", siri.ServiceDelivery.ProducerRef)
	}

	predictions := siri.Predictions()

	// The second visit has no ExpectedArrivalTime and must be dropped.
	if len(predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(predictions))
	}

	prediction := predictions[0]
	if prediction.OperatorRef != "5" {
		t.Errorf("unexpected operator ref %q", prediction.OperatorRef)
	}
	if prediction.LineName != "18" {
		t.Errorf("unexpected line name %q", prediction.LineName)
	}
	if prediction.DirectionRef != "1" {
		t.Errorf("unexpected direction %q", prediction.DirectionRef)
	}
	if prediction.VehicleRef != "7785469" {
		t.Errorf("unexpected vehicle ref %q", prediction.VehicleRef)
	}
	if prediction.DestinationName != "40230" {
		t.Errorf("expected destination ref fallback, got %q", prediction.DestinationName)
	}

	expectedArrival, _ := time.Parse(XSDDateTimeFormat, "2024-03-12T14:07:00+02:00")
	if !prediction.ExpectedArrival.Equal(expectedArrival) {
		t.Errorf("unexpected expected arrival %v", prediction.ExpectedArrival)
	}
}

func TestParseXMLErroredDelivery(t *testing.T) {
	siri, err := ParseXML(strings.NewReader(erroredResponse))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if predictions := siri.Predictions(); len(predictions) != 0 {
		t.Errorf("errored delivery should yield no predictions, got %d", len(predictions))
	}
}

func TestParseXMLMalformed(t *testing.T) {
	if _, err := ParseXML(strings.NewReader("not xml at <<<")); err == nil {
		t.Error("expected a parse error")
	}
}
