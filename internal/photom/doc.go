// Package photom turns catalog magnitudes into physical flux densities.
//
// Each instrument ships an embedded zeropoint table listing, per filter, the
// photflam and photfnu scale factors, system zeropoints, and the pivot
// wavelength. Source resolves those tables (an on-disk override directory
// wins over the embedded copies), FilterInfo matches magnitude columns to
// table rows, and the conversion helpers apply the magnitude-system math:
// AB magnitudes convert to flambda in closed form from the pivot wavelength,
// while ST and Vega magnitudes go through the detector count rate and the
// filter's photflam scale.
package photom
