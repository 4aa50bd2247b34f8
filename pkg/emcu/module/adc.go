package module

import "github.com/robotalks/emcu.go/pkg/emcu/wire"

// ADCChannel is an analog input of the EMCU.
type ADCChannel byte

// ADC channels. ADC3 serves the first two, ADC1 the rest.
const (
	ADCASICVoltmeter ADCChannel = iota // PC2
	ADCNTC                             // PC3
	ADCIOTest                          // PA1
	ADCVLVCurrentControl               // PA2
	ADCVCCCurrentControl               // PA3
	ADCModulatorDAC                    // PA4
	ADCAMDetector                      // PA5
	ADCModulationSampler               // PA6
	ADCNTCTester                       // PA7
	ADCPSCurrent                       // PC0
	ADCLeakageCurrent                  // PC1

	// ADCAll reads every channel at once.
	ADCAll ADCChannel = 99
)

var adcNames = names{
	0:  "ASIC_VOLTMETER",
	1:  "NTC",
	2:  "IO_Test",
	3:  "VLV_Current_Control",
	4:  "VCC_Current_Control",
	5:  "Modulator_DAC",
	6:  "AM_Detector_A2D",
	7:  "Modulation_Sampler_A2D",
	8:  "NTC_A2D_Tester",
	9:  "PS_Current_A2D",
	10: "Leakage_Current_A2D",
	99: "ADC_ALL",
}

func (c ADCChannel) String() string { return adcNames.name("ADC", byte(c)) }

// ADCChannels returns the single channels in id order, without ADCAll.
func ADCChannels() []ADCChannel {
	chs := make([]ADCChannel, 0, ADCLeakageCurrent+1)
	for ch := ADCASICVoltmeter; ch <= ADCLeakageCurrent; ch++ {
		chs = append(chs, ch)
	}
	return chs
}

// ParseADCChannel parses a channel name or number.
func ParseADCChannel(s string) (ADCChannel, error) {
	v, err := adcNames.parse("ADC channel", s)
	return ADCChannel(v), err
}

// ADCRead builds [channel].
func ADCRead(ch ADCChannel) (Command, error) {
	if err := adcNames.check("ADC channel", byte(ch)); err != nil {
		return Command{}, err
	}
	return Command{Module: wire.ModuleADC, Payload: []byte{byte(ch)}}, nil
}
