package emcu

// Driver groups the module controllers on one Session.
type Driver struct {
	*Session

	DAC  *DACController
	GPIO *GPIOController
	ADC  *ADCController
	Pot  *PotController
}

// NewDriver creates a Driver on s.
func NewDriver(s *Session) *Driver {
	return &Driver{
		Session: s,
		DAC:     &DACController{s},
		GPIO:    &GPIOController{s},
		ADC:     &ADCController{s},
		Pot:     &PotController{s},
	}
}
