// Package emcu drives an EMCU board over a byte link.
//
// A Session frames module commands and serializes every transmission on
// its link. The protocol carries no request identifiers, so a reply is
// simply the next line the EMCU produces after the settle delay:
//
//   drv := emcu.NewDriver(emcu.NewSession(l))
//   drv.GPIO.Control(module.PinCExtCtrl0, module.PinSet)
//   reply, err := drv.ADC.Read(module.ADCNTC)
package emcu
